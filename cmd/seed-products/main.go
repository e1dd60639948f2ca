package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"online-store-platform/internal/config"
	"online-store-platform/internal/database"
	"online-store-platform/internal/models"
	"online-store-platform/internal/repositories"
	"online-store-platform/internal/services"
)

var sampleProducts = []models.ProductCreateRequest{
	{
		Code:        "KB-0001",
		Title:       "Mechanical Keyboard",
		Description: "Tenkeyless mechanical keyboard with brown switches",
		Category:    "peripherals",
		Price:       decimal.NewFromFloat(89.99),
		Stock:       25,
		Thumbnails:  []string{"/images/kb-0001.jpg"},
	},
	{
		Code:        "MS-0002",
		Title:       "Wireless Mouse",
		Description: "Ergonomic wireless mouse with adjustable DPI",
		Category:    "peripherals",
		Price:       decimal.NewFromFloat(34.50),
		Stock:       60,
		Thumbnails:  []string{"/images/ms-0002.jpg"},
	},
	{
		Code:        "MN-0003",
		Title:       "27\" Monitor",
		Description: "27 inch QHD IPS monitor, 144Hz",
		Category:    "displays",
		Price:       decimal.NewFromFloat(299.00),
		Stock:       12,
		Thumbnails:  []string{"/images/mn-0003.jpg"},
	},
	{
		Code:        "HS-0004",
		Title:       "USB Headset",
		Description: "Closed-back USB headset with noise-cancelling microphone",
		Category:    "audio",
		Price:       decimal.NewFromFloat(59.90),
		Stock:       40,
		Thumbnails:  []string{"/images/hs-0004.jpg"},
	},
	{
		Code:        "DK-0005",
		Title:       "Laptop Dock",
		Description: "USB-C dock with dual display output and 90W charging",
		Category:    "accessories",
		Price:       decimal.NewFromFloat(149.00),
		Stock:       0,
		Thumbnails:  []string{"/images/dk-0005.jpg"},
	},
}

func main() {
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

	created := 0
	for i := range sampleProducts {
		if _, err := service.Create(&sampleProducts[i]); err != nil {
			if errors.Is(err, models.ErrDuplicateEntry) {
				continue
			}
			log.Fatalf("Failed to seed product %q: %v", sampleProducts[i].Code, err)
		}
		created++
	}

	fmt.Printf("Seeded %d products\n", created)
}
