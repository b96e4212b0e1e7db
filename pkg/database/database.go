package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/iziplay/isbn-api/pkg/ranges"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DB is the GORM database instance. It stays nil until Connect succeeds;
// the library packages never touch it.
var DB *gorm.DB

// Connect opens the connection described by the POSTGRES_* environment
// variables and migrates the schema.
func Connect() error {
	db, err := gorm.Open(postgres.Open(fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_DATABASE"),
		os.Getenv("POSTGRES_PORT"),
	)), &gorm.Config{
		Logger: logger.New(
			log.Default(),
			logger.Config{
				SlowThreshold:             10 * time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: "isbn_",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	DB = db
	log.Println("Database connection established")

	return AutoMigrate()
}

// AutoMigrate runs automatic migration for all models
func AutoMigrate() error {
	log.Println("Running auto migration...")

	err := DB.AutoMigrate(
		&RegistrationGroup{},
		&Synchronization{},
	)

	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	log.Println("Auto migration completed successfully")
	return nil
}

// Ping checks the database connection
func Ping() error {
	if DB == nil {
		return errors.New("database is not connected")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// sanitizeString removes null bytes which PostgreSQL rejects in text fields
func sanitizeString(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

// UpsertGroups writes the registration groups of a range table, replacing
// the stored rules of any group already present.
func UpsertGroups(ctx context.Context, groups []ranges.Group) error {
	rows := make([]RegistrationGroup, 0, len(groups))
	for _, g := range groups {
		rules := make([]string, len(g.Rules))
		for i, r := range g.Rules {
			rules[i] = r.String()
		}
		rows = append(rows, RegistrationGroup{
			Key:    g.Key(),
			Prefix: g.Prefix,
			Agency: sanitizeString(g.Agency),
			Rules:  pq.StringArray(rules),
		})
	}
	if len(rows) == 0 {
		return nil
	}

	if err := DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"prefix", "agency", "rules", "updated_at"}),
	}).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to upsert registration groups: %w", err)
	}
	return nil
}

// LoadGroups reads all stored registration groups back into range table form.
func LoadGroups(ctx context.Context) ([]ranges.Group, error) {
	var rows []RegistrationGroup
	if err := DB.WithContext(ctx).Order("key").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load registration groups: %w", err)
	}

	groups := make([]ranges.Group, 0, len(rows))
	for _, row := range rows {
		g := ranges.Group{Prefix: row.Prefix, Agency: row.Agency}
		for _, rs := range row.Rules {
			r, err := ranges.ParseRule(rs)
			if err != nil {
				return nil, fmt.Errorf("stored group %s: %w", row.Prefix, err)
			}
			g.Rules = append(g.Rules, r)
		}
		groups = append(groups, g)
	}
	return groups, nil
}
