// Package db opens the database connections used by the stores
package db

import (
	"errors"
	"fmt"
	"os"

	"giftlink/backend/internal/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens the SQL database configured with db.type and db.url
func New() (*gorm.DB, error) {
	url := viper.GetString("db.url")

	switch viper.GetString("db.type") {
	case "sqlite":
		// If running in a docker container don't allow the sqlite file to be created.
		// The host should instead mount it using volumes
		if inDocker() {
			if _, err := os.Stat(url); errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("SQLite database file not mounted, please use docker volumes to mount it to %s", url)
			}
		}

		return Open(SQLite(url))
	case "postgres":
		return Open(postgres.Open(url))
	default:
		return nil, fmt.Errorf("unsupported SQL database type %q", viper.GetString("db.type"))
	}
}

// Open connects using the given dialector and migrates every table
func Open(d gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(d, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	err = db.AutoMigrate(model.User{}, model.Gift{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}

func inDocker() bool {
	_, err := os.Stat("/.dockerenv")
	return err == nil
}
