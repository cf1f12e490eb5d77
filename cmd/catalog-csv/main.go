package main

import (
	"flag"
	"log"
	"os"

	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/clock"
	"ayaat-pos/internal/config"
	"ayaat-pos/internal/repository"
	"ayaat-pos/internal/service"
	"ayaat-pos/internal/ws"
	"ayaat-pos/pkg/database"
	"ayaat-pos/pkg/jwt"
)

// catalog-csv imports or exports the product catalog of the configured store.
//
//	catalog-csv -export products.csv
//	catalog-csv -import products.csv -as sarah@ayaatpos.com
func main() {
	exportPath := flag.String("export", "", "write the catalog to this CSV file (- for stdout)")
	importPath := flag.String("import", "", "merge this CSV file into the catalog")
	as := flag.String("as", "admin@ayaatpos.com", "email of the employee the change is recorded against")
	flag.Parse()

	if (*exportPath == "") == (*importPath == "") {
		log.Fatal("Use exactly one of -export or -import")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.App.StorageDriver == config.DriverMemory {
		log.Println("Warning: STORAGE_DRIVER=memory, changes will not outlive this command")
	}

	clk := clock.NewRealClock()
	repos, err := database.Open(cfg, clk)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}

	user, err := repos.Users.FindByEmail(*as)
	if err != nil {
		log.Fatalf("Employee %s not found: %v", *as, err)
	}
	actor := service.Actor{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}

	pin, err := authz.NewPINVerifier(cfg.Auth.ManagerPIN)
	if err != nil {
		log.Fatalf("Invalid MANAGER_PIN: %v", err)
	}
	tokens := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, cfg.Auth.ApprovalTTL)
	inventory := service.NewInventoryService(repos.Products, authz.NewPolicy(), tokens, pin, ws.NewRecorder(), clk)

	if *exportPath != "" {
		out := os.Stdout
		if *exportPath != "-" {
			f, err := os.Create(*exportPath)
			if err != nil {
				log.Fatalf("Failed to create %s: %v", *exportPath, err)
			}
			defer f.Close()
			out = f
		}
		if err := inventory.ExportCSV(actor, out, repository.ProductFilter{}); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		if *exportPath != "-" {
			log.Printf("Catalog written to %s", *exportPath)
		}
		return
	}

	f, err := os.Open(*importPath)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *importPath, err)
	}
	defer f.Close()

	report, err := inventory.ImportCSV(actor, f)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Printf("Processed %d rows: %d created, %d updated, %d skipped",
		report.Processed, report.Created, report.Updated, report.Skipped)
}
