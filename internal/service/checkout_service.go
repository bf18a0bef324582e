package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/cart"
	"storefront/internal/coupon"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultQuoteTTL bounds how long a pending checkout session stays usable.
const DefaultQuoteTTL = 15 * time.Minute

// DefaultCurrency is applied when the quote request does not name one.
const DefaultCurrency = "INR"

// checkoutService implements CheckoutService.
type checkoutService struct {
	normalizer   *cart.Normalizer
	couponRepo   repository.CouponRepository
	checkoutRepo repository.CheckoutRepository
	quoteTTL     time.Duration
	logger       zerolog.Logger
}

// NewCheckoutService creates a new checkout service. A non-positive quoteTTL
// falls back to DefaultQuoteTTL.
func NewCheckoutService(
	normalizer *cart.Normalizer,
	couponRepo repository.CouponRepository,
	checkoutRepo repository.CheckoutRepository,
	quoteTTL time.Duration,
	logger zerolog.Logger,
) CheckoutService {
	if quoteTTL <= 0 {
		quoteTTL = DefaultQuoteTTL
	}
	return &checkoutService{
		normalizer:   normalizer,
		couponRepo:   couponRepo,
		checkoutRepo: checkoutRepo,
		quoteTTL:     quoteTTL,
		logger:       logger.With().Str("service", "checkout").Logger(),
	}
}

// CreateQuote composes cart normalization and coupon validation into a priced
// pending session. No product or coupon state is mutated here.
func (s *checkoutService) CreateQuote(ctx context.Context, userID string, req *model.QuoteRequest) (*model.CheckoutSession, error) {
	if req == nil {
		return nil, model.ErrEmptyCart
	}

	items, subtotal, err := s.normalizer.Normalize(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	var couponCode *string
	discountTotal := 0.0
	if req.CouponCode != nil && *req.CouponCode != "" {
		code := model.NormalizeCouponCode(*req.CouponCode)

		c, err := s.couponRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to look up coupon: %w", err)
		}

		discountTotal, err = coupon.Evaluate(c, subtotal, userID, now)
		if err != nil {
			s.logger.Warn().
				Str("coupon_code", code).
				Str("user_id", userID).
				Err(err).
				Msg("coupon rejected at quote time")
			return nil, err
		}
		couponCode = &code
	}

	total := subtotal - discountTotal
	if total < 0 {
		total = 0
	}

	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	session := &model.CheckoutSession{
		ID:            uuid.New(),
		UserID:        userID,
		Items:         items,
		Subtotal:      subtotal,
		DiscountTotal: discountTotal,
		Total:         total,
		CouponCode:    couponCode,
		Currency:      currency,
		Status:        model.CheckoutPending,
		ExpiresAt:     now.Add(s.quoteTTL),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.checkoutRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	s.logger.Info().
		Str("checkout_id", session.ID.String()).
		Str("user_id", userID).
		Float64("total", total).
		Time("expires_at", session.ExpiresAt).
		Msg("quote created")

	return session, nil
}

// GetQuote returns a checkout session to its owner. An expired pending
// session is reported as expired rather than returned as usable.
func (s *checkoutService) GetQuote(ctx context.Context, checkoutID uuid.UUID, userID string) (*model.CheckoutSession, error) {
	session, err := s.checkoutRepo.GetByID(ctx, checkoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	if session == nil || session.UserID != userID {
		return nil, model.ErrCheckoutNotFound
	}
	if session.IsExpired(time.Now()) {
		return nil, model.ErrCheckoutExpired
	}
	return session, nil
}

// AttachPaymentOrder records the external gateway order reference once on a
// live pending session.
func (s *checkoutService) AttachPaymentOrder(ctx context.Context, checkoutID uuid.UUID, userID, provider, paymentOrderID string) (*model.CheckoutSession, error) {
	session, err := s.checkoutRepo.GetByID(ctx, checkoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to attach payment order: %w", err)
	}
	if session == nil || session.UserID != userID {
		return nil, model.ErrCheckoutNotFound
	}
	if session.Status == model.CheckoutCompleted {
		return nil, model.ErrCheckoutAlreadyFinalized
	}
	if session.Status == model.CheckoutExpired || session.IsExpired(time.Now()) {
		return nil, model.ErrCheckoutExpired
	}
	if session.PaymentOrderID != nil && *session.PaymentOrderID != paymentOrderID {
		return nil, model.ErrPaymentOrderMismatch
	}

	applied, err := s.checkoutRepo.SetPaymentOrder(ctx, checkoutID, provider, paymentOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to attach payment order: %w", err)
	}
	if !applied {
		// The conditional write lost a race: the session either completed or
		// had a different reference attached since the read above.
		current, err := s.checkoutRepo.GetByID(ctx, checkoutID)
		if err != nil {
			return nil, fmt.Errorf("failed to attach payment order: %w", err)
		}
		if current == nil {
			return nil, model.ErrCheckoutNotFound
		}
		if current.Status != model.CheckoutPending {
			return nil, model.ErrCheckoutAlreadyFinalized
		}
		return nil, model.ErrPaymentOrderMismatch
	}

	session.PaymentProvider = &provider
	session.PaymentOrderID = &paymentOrderID

	s.logger.Info().
		Str("checkout_id", checkoutID.String()).
		Str("provider", provider).
		Msg("payment order reference attached")

	return session, nil
}

// RunReaper sweeps expired pending sessions on a fixed interval until ctx is
// cancelled. Finalize preconditions make expired sessions inert regardless,
// so a missed sweep only delays storage housekeeping.
func (s *checkoutService) RunReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", interval).Msg("checkout session reaper started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("checkout session reaper stopped")
			return
		case <-ticker.C:
			swept, err := s.checkoutRepo.ExpireStale(ctx, time.Now())
			if err != nil {
				s.logger.Error().Err(err).Msg("failed to sweep expired checkout sessions")
				continue
			}
			if swept > 0 {
				s.logger.Info().Int64("swept", swept).Msg("expired checkout sessions swept")
			}
		}
	}
}
