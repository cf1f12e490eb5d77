package database

import (
	"fmt"
	"log"

	"ayaat-pos/internal/clock"
	"ayaat-pos/internal/config"
	"ayaat-pos/internal/repository"
	"ayaat-pos/internal/repository/memory"
)

// Open returns the repositories for the configured driver. Postgres is migrated
// first; either store is seeded with the demo data when it has no employees.
func Open(cfg *config.Config, clk clock.Clock) (*repository.Repositories, error) {
	var repos *repository.Repositories

	switch cfg.App.StorageDriver {
	case config.DriverPostgres:
		db, err := ConnectDB(cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect: %w", err)
		}
		// Auto Migrate (for production prefer a separate migration tool)
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		repos = repository.NewGormRepositories(db)
	default:
		log.Println("Using in-memory storage, data is lost on restart")
		repos = memory.New(clk).Repositories()
	}

	if err := Seed(repos, clk.Now(), cfg.Auth.SeedPassword); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	if cfg.POS.TaxRate != nil {
		st, err := repos.Settings.StoreSettings()
		if err != nil {
			return nil, err
		}
		if !st.TaxRate.Equal(*cfg.POS.TaxRate) {
			st.TaxRate = *cfg.POS.TaxRate
			if err := repos.Settings.SaveStoreSettings(st); err != nil {
				return nil, err
			}
			log.Printf("Tax rate set to %s%% from TAX_RATE", st.TaxRate)
		}
	}
	return repos, nil
}
