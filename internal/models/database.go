package models

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/brainfuel/backend/internal/config"
	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqliteDriverName = "sqlite3_brainfuel"

// The stock SQLite lower() folds ASCII only. Every connection opened through
// sqliteDriverName replaces it with full Unicode lowercasing so LOWER() agrees
// with strings.ToLower.
func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", unicodeLower, true)
		},
	})
}

func unicodeLower(v interface{}) interface{} {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		return strings.ToLower(string(s))
	default:
		return v
	}
}

// OpenDB connects to the configured database. SQLite connections are capped at
// one pooled connection with no expiry and have foreign-key enforcement
// switched on and verified before the handle is returned.
func OpenDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite", "":
		dialector = sqlite.New(sqlite.Config{
			DriverName: sqliteDriverName,
			DSN:        sqliteDSN(cfg.DSN),
		})
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if dialector.Name() == "sqlite" {
		if err := configureSQLite(db); err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				sqlDB.Close()
			}
			return nil, err
		}
	}

	return db, nil
}

// configureSQLite pins the pool to a single connection and enables foreign keys on it.
func configureSQLite(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	var enabled int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error; err != nil {
		return fmt.Errorf("failed to verify foreign keys: %w", err)
	}
	if enabled != 1 {
		return fmt.Errorf("foreign key enforcement is not available")
	}
	return nil
}

// sqliteDSN asks the driver to enable foreign keys as each connection opens.
func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = "brainfuel.db"
	}
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=1"
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Category{},
		&Project{},
		&ProjectTag{},
		&ProjectSupport{},
	)
}

// DefaultCategories is the vocabulary seeded into an empty database.
var DefaultCategories = []Category{
	{Name: "Artificial Intelligence", Description: "Machine learning, NLP, computer vision and intelligent agents"},
	{Name: "Web Development", Description: "Web applications, APIs and browser tooling"},
	{Name: "Mobile Development", Description: "Native and cross-platform mobile apps"},
	{Name: "Data Science", Description: "Data analysis, visualization and statistics"},
	{Name: "IoT & Hardware", Description: "Embedded systems, sensors and robotics"},
	{Name: "Game Development", Description: "Games, simulations and interactive media"},
	{Name: "Cybersecurity", Description: "Security research, tooling and privacy"},
	{Name: "Blockchain", Description: "Distributed ledgers and smart contracts"},
}

// SeedDefaultData creates the default categories when none exist.
func SeedDefaultData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := make([]Category, len(DefaultCategories))
	copy(categories, DefaultCategories)
	return db.Create(&categories).Error
}
