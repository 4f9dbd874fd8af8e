package persistence

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the tuple database. Supported drivers: sqlite
// (default, also used by the test suites) and postgres (production).
func Open(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	switch driver {
	case "sqlite", "":
		return gorm.Open(sqlite.Open(dsn), cfg)
	case "postgres", "postgresql":
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

// AutoMigrate creates or updates the permission tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&PermissionTupleRecord{})
}
