// Package db opens the database, applies the schema and seeds reference data.
package db

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sig-servicios/cotizador/internal/config"
	"github.com/sig-servicios/cotizador/internal/identity"
	"github.com/sig-servicios/cotizador/internal/models"
)

const connectAttempts = 10

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&models.User{}, &identity.Identity{}, &models.Company{}, &models.Client{}, &models.Service{},
		&models.Quotation{}, &models.QuotationItem{},
		&models.InspectionReport{}, &models.InspectionResponse{}, &models.ActionItem{},
		&models.InspectionDraft{}, &models.Blob{},
	}
}

// Connect opens dsn with retries without touching the schema.
func Connect(cfg config.DatabaseConfig, dsn string, log logrus.FieldLogger) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_DSN is empty")
	}
	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(level)}

	var db *gorm.DB
	var err error
	for i := 0; i < connectAttempts; i++ {
		db, err = gorm.Open(dialector(cfg.Driver, dsn), gcfg)
		if err == nil {
			if err = db.Exec("SELECT 1").Error; err == nil {
				break
			}
		}
		log.WithField("attempt", i+1).Warnf("database not ready: %v", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database after retries: %w", err)
	}
	log.WithField("dsn", MaskDSN(dsn)).Info("database connected")
	return db, nil
}

// Open connects with retries, applies the schema and optionally seeds.
func Open(cfg config.DatabaseConfig, app config.AppConfig, log logrus.FieldLogger) (*gorm.DB, error) {
	db, err := Connect(cfg, cfg.NormalizedDSN(), log)
	if err != nil {
		return nil, err
	}

	if useSQLMigrations(cfg, app) {
		if err := RunSQLMigrations(cfg.URL()); err != nil {
			return nil, fmt.Errorf("sql migrations: %w", err)
		}
	} else if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	if app.Seed {
		if err := Seed(db); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	return db, nil
}

// useSQLMigrations picks the SQL migrations over AutoMigrate. They are the
// only source of the authenticated role and its policies, so RLS forces them.
func useSQLMigrations(cfg config.DatabaseConfig, app config.AppConfig) bool {
	if cfg.Driver == "sqlite" {
		return false
	}
	return app.Migrations || cfg.UsesRLS()
}

func dialector(driver, dsn string) gorm.Dialector {
	if driver == "sqlite" {
		return sqlite.Open(dsn)
	}
	return postgres.Open(dsn)
}

// AutoMigrate creates or updates all tables from the models.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// RunSQLMigrations executes ./migrations with golang-migrate. These also
// install the row-level-security policies.
func RunSQLMigrations(url string) error {
	m, err := migrate.New("file://migrations", url)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

var passwordKV = regexp.MustCompile(`(password=)([^\s]+)`)
var passwordURL = regexp.MustCompile(`(://[^:/]+:)([^@]+)(@)`)

// MaskDSN hides the password in either DSN form.
func MaskDSN(dsn string) string {
	if strings.Contains(dsn, "password=") {
		return passwordKV.ReplaceAllString(dsn, `${1}***`)
	}
	return passwordURL.ReplaceAllString(dsn, `${1}***${3}`)
}
