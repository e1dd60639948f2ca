package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"online-store-platform/internal/config"
	"online-store-platform/internal/database"
	"online-store-platform/internal/handlers"
	"online-store-platform/internal/middleware"
	"online-store-platform/internal/repositories"
	"online-store-platform/internal/services"

	"github.com/go-chi/chi/v5"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database connection
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
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()
	log.Println("Database connection established successfully")

	if err := db.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize repositories
	productRepo := repositories.NewProductRepository(db.DB)
	cartRepo := repositories.NewCartRepository(db.DB)
	ticketRepo := repositories.NewTicketRepository(db.DB)
	userRepo := repositories.NewUserRepository(db.DB)

	// Initialize services
	emailService := services.NewSMTPEmailService(services.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUser,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
	})

	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(cartRepo, productService)
	ticketService := services.NewTicketService(ticketRepo)
	checkoutService := services.NewCheckoutService(cartRepo, productRepo, ticketRepo)
	userService := services.NewUserService(
		userRepo,
		emailService,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour,
		cfg.Email.ResetBaseURL,
	)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService, checkoutService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	sessionHandler := handlers.NewSessionHandler(userService)

	// Initialize router
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig()))
	r.Use(middleware.Authenticate(userService))

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/{productID}", productHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/", productHandler.Create)
				r.Put("/{productID}", productHandler.Update)
				r.Delete("/{productID}", productHandler.Delete)
			})
		})

		r.Route("/carts", func(r chi.Router) {
			r.Get("/", cartHandler.List)
			r.Post("/", cartHandler.Create)

			r.Route("/{cartID}", func(r chi.Router) {
				r.Get("/", cartHandler.Get)
				r.Delete("/", cartHandler.Clear)
				r.Get("/totals", cartHandler.Totals)
				r.Put("/products", cartHandler.ReplaceLines)
				r.Post("/products/{productID}", cartHandler.AddLine)
				r.Put("/products/{productID}", cartHandler.UpdateLine)
				r.Delete("/products/{productID}", cartHandler.RemoveLine)

				r.With(middleware.RequireAuth).Put("/status", cartHandler.SetStatus)
			})
		})

		r.Route("/tickets", func(r chi.Router) {
			r.With(middleware.RequireAuth).Get("/", ticketHandler.List)
			r.Get("/{ticketID}", ticketHandler.Get)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/register", sessionHandler.Register)
			r.Post("/login", sessionHandler.Login)
			r.Post("/logout", sessionHandler.Logout)
			r.Post("/forgot-password", sessionHandler.ForgotPassword)
			r.Post("/reset-password", sessionHandler.ResetPassword)
			r.With(middleware.RequireAuth).Get("/current", sessionHandler.Current)
		})
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server starting on http://%s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server failed:", err)
	}
}
