package model

import (
	"fmt"
	"os"
	"path/filepath"

	"drivebox/backend/common"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the configured database and migrates the schema. The handle is
// returned to the caller so stores can be constructed with an explicit
// dependency instead of a package-level global.
func InitDB() (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("SQL_DSN")
	if dsn != "" {
		common.SysLog("Using MySQL database")
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			PrepareStmt: true,
		})
	} else {
		common.SysLog("SQL_DSN not set, using SQLite as database: " + common.SQLitePath)
		if dir := filepath.Dir(common.SQLitePath); dir != "." {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dir, mkErr)
			}
		}
		db, err = gorm.Open(sqlite.Open(common.SQLitePath), &gorm.Config{
			PrepareStmt: true,
		})
	}

	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err = db.AutoMigrate(&File{}); err != nil {
		return nil, fmt.Errorf("auto migrate database schema: %w", err)
	}

	common.SysLog("Database initialized successfully.")
	return db, nil
}

func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	common.SysLog("Closing database connection.")
	return sqlDB.Close()
}
