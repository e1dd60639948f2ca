package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"online-store-platform/internal/config"
	"online-store-platform/internal/database"
	"online-store-platform/internal/models"
	"online-store-platform/internal/repositories"
	"online-store-platform/internal/services"
)

// Imports a catalog export into the products table. Products whose code is
// already taken are skipped, so re-running the import is safe.
func main() {
	file := flag.String("file", "products.json", "Path to a JSON array of products")
	flag.Parse()

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}

	var products []models.ProductCreateRequest
	if err := json.Unmarshal(data, &products); err != nil {
		log.Fatalf("Failed to parse %s: %v", *file, err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	service := services.NewProductService(repositories.NewProductRepository(db.DB))

	imported, skipped := 0, 0
	for i := range products {
		if _, err := service.Create(&products[i]); err != nil {
			if errors.Is(err, models.ErrDuplicateEntry) {
				skipped++
				continue
			}
			log.Fatalf("Failed to import product %q: %v", products[i].Code, err)
		}
		imported++
	}

	fmt.Printf("Imported %d products (%d already present)\n", imported, skipped)
}
