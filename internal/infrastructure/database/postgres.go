package database

import (
	"fmt"
	"strings"

	"github.com/sangkips/landedcost-api/internal/config"
	"github.com/sangkips/landedcost-api/internal/domain/entity"
	"github.com/sangkips/landedcost-api/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel(cfg.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	logger.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("connected to PostgreSQL")
	return db, nil
}

func logLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	logger.Info().Msg("running database migrations")

	if err := dropFullAgencyNameIndex(db); err != nil {
		return fmt.Errorf("failed to migrate shipping agency name index: %w", err)
	}

	err := db.AutoMigrate(
		&entity.ShippingAgency{},
		&entity.Supplier{},
		&entity.SupplierOrder{},
		&entity.Delivery{},
		&entity.SupplierOrderLine{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info().Msg("database migrations completed")
	return nil
}

const agencyNameIndex = "idx_shipping_agencies_name"

// dropFullAgencyNameIndex removes an agency name index that still covers
// soft-deleted rows. AutoMigrate then recreates it as a partial index.
func dropFullAgencyNameIndex(db *gorm.DB) error {
	var full int64
	err := db.Raw(
		"SELECT COUNT(*) FROM pg_indexes WHERE tablename = ? AND indexname = ? AND indexdef NOT LIKE ?",
		entity.ShippingAgency{}.TableName(), agencyNameIndex, "%WHERE%",
	).Scan(&full).Error
	if err != nil || full == 0 {
		return err
	}
	logger.Info().Str("index", agencyNameIndex).Msg("dropping shipping agency name index to recreate it as partial")
	return db.Migrator().DropIndex(&entity.ShippingAgency{}, agencyNameIndex)
}

// SeedDefaultData creates the configured shipping agency when no agency of
// that name exists yet.
func SeedDefaultData(db *gorm.DB, cfg *config.SeedConfig) error {
	if cfg.AgencyName == "" {
		return nil
	}

	var existing entity.ShippingAgency
	if err := db.Where("name = ?", cfg.AgencyName).First(&existing).Error; err == nil {
		logger.Debug().Str("agency", cfg.AgencyName).Msg("default shipping agency already exists")
		return nil
	}

	agency := entity.ShippingAgency{
		Name:           cfg.AgencyName,
		AirPricePerKg:  seedPrice("air_price_per_kg", cfg.AirPricePerKg),
		SeaPricePerCbm: seedPrice("sea_price_per_cbm", cfg.SeaPricePerCbm),
		IsActive:       true,
	}
	if cfg.ExpressPricePerKg != "" {
		agency.ExpressPricePerKg = decimal.NewNullDecimal(seedPrice("express_price_per_kg", cfg.ExpressPricePerKg))
	}

	if err := db.Create(&agency).Error; err != nil {
		return fmt.Errorf("failed to seed shipping agency %s: %w", cfg.AgencyName, err)
	}

	logger.Info().Str("agency", cfg.AgencyName).Msg("default shipping agency created")
	return nil
}

func seedPrice(field, value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		logger.Warn().Str("field", field).Str("value", value).Msg("invalid seed price, using 0")
		return decimal.Zero
	}
	return d
}
