package database

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // registers the "libsql" database/sql driver
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront/internal/config"
	"storefront/internal/models"
)

// libSQLDriver is the database/sql driver name registered by libsql-client-go.
const libSQLDriver = "libsql"

var (
	handle  *gorm.DB
	initErr error
	once    sync.Once
)

// Dialector picks the gorm dialector for cfg.URL. Remote libSQL URLs go
// through the sqlite dialector on top of the libsql driver, postgres URLs
// use pgx, and anything else is treated as a local SQLite DSN.
func Dialector(cfg config.Database) (gorm.Dialector, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	scheme := ""
	if i := strings.Index(cfg.URL, "://"); i > 0 {
		scheme = strings.ToLower(cfg.URL[:i])
	}

	switch scheme {
	case "libsql", "http", "https", "ws", "wss":
		dsn, err := withAuthToken(cfg.URL, cfg.AuthToken)
		if err != nil {
			return nil, err
		}
		return sqlite.New(sqlite.Config{DriverName: libSQLDriver, DSN: dsn}), nil
	case "postgres", "postgresql":
		return postgres.Open(cfg.URL), nil
	default:
		return sqlite.Open(withForeignKeys(cfg.URL)), nil
	}
}

// Open connects to the database described by cfg and verifies the
// connection with a ping.
func Open(cfg config.Database) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if cfg.LogSQL {
		level = logger.Info
	}
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Init opens the process-wide handle on first use. Later calls return the
// same handle (or the same error) regardless of cfg.
func Init(cfg config.Database) (*gorm.DB, error) {
	once.Do(func() {
		handle, initErr = Open(cfg)
		if initErr == nil {
			log.Println("Database handle initialised")
		}
	})
	return handle, initErr
}

// DB returns the process-wide handle, or nil before Init succeeds.
func DB() *gorm.DB {
	return handle
}

// Migrate creates or updates every declared table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func withAuthToken(rawURL, token string) (string, error) {
	if token == "" {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid database URL: %w", err)
	}
	q := u.Query()
	q.Set("authToken", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// withForeignKeys turns on foreign key enforcement for go-sqlite3, which
// leaves it off by default.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}
