package main

import (
	"flag"
	"log"

	"ayaat-pos/internal/clock"
	"ayaat-pos/internal/config"
	"ayaat-pos/pkg/database"
)

func main() {
	email := flag.String("email", "admin@ayaatpos.com", "employee to reset")
	password := flag.String("password", "admin123", "new password (at least 6 characters)")
	flag.Parse()

	if len(*password) < 6 {
		log.Fatal("❌ Password must be at least 6 characters")
	}

	// 1. Load Env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	if cfg.App.StorageDriver != config.DriverPostgres {
		log.Fatal("❌ reset-password needs STORAGE_DRIVER=postgres")
	}

	// 2. Setup Database
	repos, err := database.Open(cfg, clock.NewRealClock())
	if err != nil {
		log.Fatalf("❌ Failed to open storage: %v", err)
	}

	// 3. Find Employee
	user, err := repos.Users.FindByEmail(*email)
	if err != nil {
		log.Fatalf("❌ User %s not found in database: %v", *email, err)
	}

	// 4. Hash new password
	if err := user.SetPassword(*password); err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}
	user.UpdatedBy = "reset-password"

	// 5. Update
	if err := repos.Users.Update(user); err != nil {
		log.Fatalf("❌ Failed to update password in DB: %v", err)
	}

	log.Printf("✅ Success! Password for %s has been reset", *email)
}
