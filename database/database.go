package database

import (
	"fmt"
	"log"
	"time"

	"enrollment/config"
	"enrollment/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDb opens the database selected by cfg.DBDriver and sets up
// connection pooling.
func ConnectDb(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(LogLevel(cfg.DBLogLevel)),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.DBDriver, err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.DBDriver == "sqlite" {
		// SQLite only supports one writer at a time
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(0) // No timeout

	return db, nil
}

// Dialector returns the gorm dialector for a driver name.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// LogLevel maps a config value onto gorm's logger levels. Unknown values
// fall back to warn.
func LogLevel(level string) logger.LogLevel {
	switch level {
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

// mysqlTableOptions makes text comparisons on MySQL byte-exact, so course
// names and emails stay case-sensitive as they are on postgres and sqlite.
const mysqlTableOptions = "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin"

// TableOptions returns the table options AutoMigrate uses for a driver.
func TableOptions(driver string) string {
	if driver == "mysql" {
		return mysqlTableOptions
	}
	return ""
}

// Migrate creates or updates the tables and indexes, including the unique
// (email, course) index on enrollments.
func Migrate(db *gorm.DB) error {
	log.Println("Running Migrations...")

	migrator := db
	if opts := TableOptions(db.Dialector.Name()); opts != "" {
		migrator = db.Set("gorm:table_options", opts)
	}
	err := migrator.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Enrollment{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if err := backfillNameFolded(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Println("Migrations completed successfully.")
	return nil
}

// backfillNameFolded fills the search key for rows written before it
// existed. UpdateColumn skips hooks and leaves updated_at alone.
func backfillNameFolded(db *gorm.DB) error {
	write := db.Session(&gorm.Session{NewDB: true})
	var batch []models.Enrollment
	res := db.Select("id", "name").
		Where("name_folded = ? AND name <> ?", "", "").
		FindInBatches(&batch, 200, func(_ *gorm.DB, _ int) error {
			for _, e := range batch {
				err := write.Model(&models.Enrollment{}).Where("id = ?", e.ID).
					UpdateColumn("name_folded", models.FoldName(e.Name)).Error
				if err != nil {
					return err
				}
			}
			return nil
		})
	return res.Error
}
