package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"room-booking-backend/config"
	"room-booking-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres", "":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&model.Room{},
		&model.User{},
		&model.Booking{},
		&model.PushSubscription{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	if cfg.Driver == "postgres" && cfg.EnableExclusionConstraint {
		log.Println("Applying booking exclusion constraint DDL...")
		if err := applyExclusionDDL(db); err != nil {
			return nil, err
		}
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// applyExclusionDDL installs a storage-level guard against overlapping
// bookings. The in-process per-room lock is the primary guard; this
// constraint rejects the second of two overlapping inserts even if that
// discipline is ever bypassed. Half-open bounds `[)` keep back-to-back
// bookings legal.
func applyExclusionDDL(db *gorm.DB) error {
	// ADD CONSTRAINT has no IF NOT EXISTS form, so the ALTERs are wrapped to
	// keep boot idempotent across restarts.
	ddls := []string{
		"CREATE EXTENSION IF NOT EXISTS btree_gist;",

		"DO $$ BEGIN " +
			"ALTER TABLE bookings ADD CONSTRAINT bookings_interval_valid CHECK (start_time < end_time); " +
			"EXCEPTION WHEN duplicate_object OR duplicate_table THEN NULL; END $$;",

		"DO $$ BEGIN " +
			"ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap EXCLUDE USING GIST " +
			"(room_id WITH =, tstzrange(start_time, end_time, '[)') WITH &&); " +
			"EXCEPTION WHEN duplicate_object OR duplicate_table THEN NULL; END $$;",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
