package db

import (
	"fmt"

	"github.com/tilevision/segserve/internal/config"
	"github.com/tilevision/segserve/internal/db/drivers"
)

func NewConnection(cfg *config.Config) (drivers.Driver, error) {
	if cfg.DB == nil || cfg.DB.DSN == "" {
		return nil, fmt.Errorf("database is not configured")
	}

	switch cfg.DB.Driver {
	case "sqlite":
		return drivers.NewSQLiteDriver(cfg.DB.DSN)
	case "pg":
		return drivers.NewPGDriver(cfg.DB.DSN)
	}

	return nil, fmt.Errorf("invalid database driver: %s", cfg.DB.Driver)
}
