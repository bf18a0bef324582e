package integration

import (
	"context"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	pool, err := database.NewPool(ctx, dbConfig, zerolog.Nop())
	if err != nil {
		// Try with connection string directly
		poolConfig, parseErr := pgxpool.ParseConfig(connStr)
		if parseErr != nil {
			t.Fatalf("failed to parse connection string: %v", parseErr)
		}
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			t.Fatalf("failed to create connection pool: %v", err)
		}
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			mrp DECIMAL(10, 2) NOT NULL,
			discount_percent DECIMAL(5, 2),
			stock INTEGER NOT NULL CHECK (stock >= 0),
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS coupons (
			code VARCHAR(50) PRIMARY KEY,
			type VARCHAR(20) NOT NULL,
			value DECIMAL(10, 2) NOT NULL,
			min_order_value DECIMAL(10, 2) NOT NULL DEFAULT 0,
			max_discount DECIMAL(10, 2),
			active BOOLEAN NOT NULL DEFAULT FALSE,
			starts_at TIMESTAMPTZ,
			ends_at TIMESTAMPTZ,
			usage_limit INTEGER,
			usage_count INTEGER NOT NULL DEFAULT 0,
			per_user_limit INTEGER,
			usage_by_user JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS checkout_sessions (
			id UUID PRIMARY KEY,
			user_id VARCHAR(100) NOT NULL,
			items JSONB NOT NULL,
			subtotal DECIMAL(12, 2) NOT NULL,
			discount_total DECIMAL(12, 2) NOT NULL DEFAULT 0,
			total DECIMAL(12, 2) NOT NULL,
			coupon_code VARCHAR(50),
			currency VARCHAR(10) NOT NULL,
			status VARCHAR(20) NOT NULL,
			payment_provider VARCHAR(50),
			payment_order_id VARCHAR(100),
			order_id UUID,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_checkout_sessions_user_id ON checkout_sessions(user_id);
		CREATE INDEX IF NOT EXISTS idx_checkout_sessions_status_expires ON checkout_sessions(status, expires_at);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			order_number VARCHAR(50) NOT NULL UNIQUE,
			user_id VARCHAR(100) NOT NULL,
			items JSONB NOT NULL,
			subtotal DECIMAL(12, 2) NOT NULL,
			discount_total DECIMAL(12, 2) NOT NULL DEFAULT 0,
			total_price DECIMAL(12, 2) NOT NULL,
			currency VARCHAR(10) NOT NULL,
			coupon_code VARCHAR(50),
			status VARCHAR(20) NOT NULL,
			payment_status VARCHAR(20) NOT NULL,
			payment_provider VARCHAR(50) NOT NULL,
			payment_id VARCHAR(100) NOT NULL,
			payment_order_id VARCHAR(100) NOT NULL,
			shipping JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id, created_at DESC);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedProduct inserts a product with the given stock.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, id string, mrp float64, discountPercent *float64, stock int) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO products (id, name, mrp, discount_percent, stock, is_active)
		VALUES ($1, $1, $2, $3, $4, TRUE)
	`, id, mrp, discountPercent, stock)
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", id, err)
	}
}

// ProductStock reads the current stock for a product.
func ProductStock(t *testing.T, pool *pgxpool.Pool, id string) int {
	t.Helper()

	var stock int
	err := pool.QueryRow(context.Background(), "SELECT stock FROM products WHERE id = $1", id).Scan(&stock)
	if err != nil {
		t.Fatalf("failed to read stock for %s: %v", id, err)
	}
	return stock
}

// CountOrders returns the number of order rows.
func CountOrders(t *testing.T, pool *pgxpool.Pool) int {
	t.Helper()

	var count int
	err := pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM orders").Scan(&count)
	if err != nil {
		t.Fatalf("failed to count orders: %v", err)
	}
	return count
}
