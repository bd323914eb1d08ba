package db

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/freshfold/freshfold-backend/pkg/config"
	"github.com/freshfold/freshfold-backend/pkg/logger"
)

// Client wraps the gorm handle so callers never import gorm directly outside
// repositories.
type Client struct {
	gorm *gorm.DB
}

// NewClient opens a postgres connection using the configured DSN and verifies
// it with a ping.
func NewClient(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.DSN), gormConfig(cfg.LogQueries))
	if err != nil {
		return nil, fmt.Errorf("db: open postgres: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("db: unwrap sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	client := &Client{gorm: gdb}
	if err := client.Ping(ctx); err != nil {
		return nil, err
	}

	logg.Info(ctx, "database connection established")
	return client, nil
}

// NewSQLiteClient opens an in-memory sqlite database. Test helper.
func NewSQLiteClient() (*Client, error) {
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), gormConfig(false))
	if err != nil {
		return nil, fmt.Errorf("db: open sqlite: %w", err)
	}
	return &Client{gorm: gdb}, nil
}

func gormConfig(logQueries bool) *gorm.Config {
	level := gormlogger.Silent
	if logQueries {
		level = gormlogger.Info
	}
	return &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: false,
	}
}

// DB returns the underlying gorm handle for repository constructors.
func (c *Client) DB() *gorm.DB {
	return c.gorm
}

// Transaction runs fn inside a single database transaction.
func (c *Client) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.gorm.WithContext(ctx).Transaction(fn)
}

// Ping verifies the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.gorm.DB()
	if err != nil {
		return fmt.Errorf("db: unwrap sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("db: ping: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	sqlDB, err := c.gorm.DB()
	if err != nil {
		return fmt.Errorf("db: unwrap sql.DB: %w", err)
	}
	return sqlDB.Close()
}
