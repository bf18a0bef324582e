package coupon

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Loader defines the interface for loading coupon definition files.
// Files are gzipped JSON lines, one coupon definition per line.
type Loader interface {
	Load(ctx context.Context, path string) ([]model.Coupon, error)
}

// fileLoader implements Loader for the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based coupon definition loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "coupon-loader").Logger(),
	}
}

// Load reads a gzipped coupon definition file from the local file system.
func (l *fileLoader) Load(ctx context.Context, path string) ([]model.Coupon, error) {
	l.logger.Info().Str("file", path).Msg("loading coupon definition file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open coupon file")
		return nil, fmt.Errorf("failed to open coupon file %s: %w", path, err)
	}
	defer file.Close()

	coupons, err := decodeDefinitions(ctx, file, l.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to read coupon file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("coupons_loaded", len(coupons)).
		Msg("coupon definition file loaded")

	return coupons, nil
}

// decodeDefinitions decompresses and decodes a JSON-lines coupon stream.
// Blank lines are skipped; a malformed line fails the whole load so a bad
// file never half-applies.
func decodeDefinitions(ctx context.Context, r io.Reader, logger zerolog.Logger) ([]model.Coupon, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var coupons []model.Coupon
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		select {
		case <-ctx.Done():
			logger.Warn().Msg("coupon loading cancelled")
			return nil, ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var c model.Coupon
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			logger.Error().Err(err).Int("line", lineNo).Msg("malformed coupon definition")
			return nil, fmt.Errorf("malformed coupon definition at line %d: %w", lineNo, err)
		}

		c.Code = model.NormalizeCouponCode(c.Code)
		if c.Code == "" {
			logger.Error().Int("line", lineNo).Msg("coupon definition missing code")
			return nil, fmt.Errorf("coupon definition at line %d has no code", lineNo)
		}

		coupons = append(coupons, c)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading coupon definitions: %w", err)
	}

	return coupons, nil
}
