package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/reservas-api/internal/config"
	"github.com/BruksfildServices01/reservas-api/internal/models"
	"github.com/BruksfildServices01/reservas-api/internal/timezone"
)

// constraints are applied after AutoMigrate. The exclusion constraint is the
// storage-level guarantee that non-cancelled reservations of one location
// never overlap; btree_gist is needed for the equality on location_id.
var constraints = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'reservations_no_overlap') THEN
			ALTER TABLE reservations ADD CONSTRAINT reservations_no_overlap
				EXCLUDE USING gist (
					location_id WITH =,
					tsrange(date + start_time, date + end_time) WITH &&
				) WHERE (status <> 'cancelled');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'reservations_time_range') THEN
			ALTER TABLE reservations ADD CONSTRAINT reservations_time_range
				CHECK (start_time < end_time);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'locations_operating_hours') THEN
			ALTER TABLE locations ADD CONSTRAINT locations_operating_hours
				CHECK (operating_hours_start < operating_hours_end AND max_duration > 0 AND cancellation_hours >= 0 AND price_per_hour >= 0);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'payments_amount_positive') THEN
			ALTER TABLE payments ADD CONSTRAINT payments_amount_positive CHECK (amount > 0);
		END IF;
	END $$`,
}

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.LogLevel == "debug" {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Location{},
		&models.LocationImage{},
		&models.Reservation{},
		&models.Payment{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	for _, stmt := range constraints {
		if err := db.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("failed to apply constraint: %w", err)
		}
	}

	db.Exec(`
        UPDATE locations
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, timezone.DefaultTimezone)

	return db, nil
}
