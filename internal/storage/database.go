package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"widgetchat/internal/config"
	"widgetchat/internal/models"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the configured database and wraps the pool with gorm.
func Open(dbCfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	if dbCfg.URL == "" {
		return nil, fmt.Errorf("database url must be provided")
	}

	var (
		sqlDB     *sql.DB
		dialector gorm.Dialector
		err       error
	)

	switch strings.ToLower(dbCfg.Driver) {
	case "sqlite", "sqlite3":
		sqlDB, err = sql.Open("sqlite3", sqliteDSN(dbCfg.URL))
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		// a single connection keeps :memory: databases shared and serializes writers
		sqlDB.SetMaxOpenConns(1)
		if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
		dialector = sqlite.Dialector{Conn: sqlDB}
	case "mysql":
		sqlDB, err = sql.Open("mysql", mysqlDSN(dbCfg.URL))
		if err != nil {
			return nil, fmt.Errorf("open mysql database: %w", err)
		}
		dialector = mysql.New(mysql.Config{Conn: sqlDB})
	case "postgres", "postgresql":
		sqlDB, err = sql.Open("postgres", dbCfg.URL)
		if err != nil {
			return nil, fmt.Errorf("open postgres database: %w", err)
		}
		dialector = postgres.New(postgres.Config{Conn: sqlDB})
	default:
		return nil, fmt.Errorf("unsupported driver: %s", dbCfg.Driver)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("init gorm: %w", err)
	}
	return db, nil
}

// Migrate ensures the required tables are present.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.ChatSession{},
		&models.Message{},
		&models.WidgetConfig{},
		&models.WidgetCache{},
	); err != nil {
		return fmt.Errorf("migrate (%s): %w", db.Dialector.Name(), err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func sqliteDSN(url string) string {
	url = strings.TrimPrefix(url, "sqlite:///")
	url = strings.TrimPrefix(url, "sqlite://")
	if url == ":memory:" || strings.Contains(url, "_foreign_keys") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_foreign_keys=on"
}

func mysqlDSN(url string) string {
	url = strings.TrimPrefix(url, "mysql://")
	if strings.Contains(url, "parseTime=") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "parseTime=true&charset=utf8mb4"
}
