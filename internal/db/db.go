package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"IndoHomz/internal/logger"
	"IndoHomz/internal/models"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

// Open connects to the database named by dsn. A "sqlite:" prefix selects
// SQLite (file path or ":memory:"); anything else is handed to lib/pq.
func Open(dsn string) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}

	if strings.HasPrefix(dsn, sqlitePrefix) {
		path := strings.TrimPrefix(dsn, sqlitePrefix)
		gdb, err := gorm.Open(sqlite.Open(path), gcfg)
		if err != nil {
			return nil, fmt.Errorf("db: open sqlite: %w", err)
		}
		if path == ":memory:" {
			// every pooled connection would get its own empty database
			if sqlDB, err := gdb.DB(); err == nil {
				sqlDB.SetMaxOpenConns(1)
			}
		}
		logger.Log.Infof("db: connected (sqlite %s)", path)
		return gdb, nil
	}

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open failed: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("db: ping failed: %w", err)
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gcfg)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("db: gorm init: %w", err)
	}
	logger.Log.Info("db: connected (" + SafeDSN(dsn) + ")")
	return gdb, nil
}

// Migrate creates or updates the tables for every model.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(models.All()...)
}

// Ping checks the connection, used by /health.
func Ping(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// SafeDSN describes where we connect to without leaking the password.
func SafeDSN(dsn string) string {
	if strings.HasPrefix(dsn, sqlitePrefix) {
		return "sqlite " + strings.TrimPrefix(dsn, sqlitePrefix)
	}
	if strings.Contains(dsn, "://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "url provided"
		}
		return fmt.Sprintf("host=%s user=%s db=%s", u.Host, u.User.Username(), strings.TrimPrefix(u.Path, "/"))
	}

	var host, user, name string
	for _, kv := range strings.Fields(dsn) {
		k, v, _ := strings.Cut(kv, "=")
		switch k {
		case "host":
			host = v
		case "user":
			user = v
		case "dbname":
			name = v
		}
	}
	return fmt.Sprintf("host=%s user=%s db=%s", host, user, name)
}
