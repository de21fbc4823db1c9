package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"

	"sweetshop/internal/checkout"
	"sweetshop/internal/handlers"
	"sweetshop/internal/middleware"
	"sweetshop/internal/models"
	"sweetshop/internal/notify"
	"sweetshop/internal/payment"
	"sweetshop/internal/repositories"
	"sweetshop/internal/services"
	"sweetshop/pkg/rabbitmq"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("APP_BASE_URL", "http://localhost:8080")
	viper.SetDefault("DATABASE_DSN", "sweetshop.db")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables the event queue
	viper.SetDefault("JWT_SECRET", "change_me_in_production")
	viper.SetDefault("STRIPE_API_URL", "https://api.stripe.com")
	viper.SetDefault("STRIPE_SECRET_KEY", "")
	viper.SetDefault("CUSTOMER_WEBHOOK_URL", "")
	viper.SetDefault("ADMIN_WEBHOOK_URL", "")
	viper.SetDefault("ADMIN_EMAIL", "orders@sweetshop.example")
	viper.SetDefault("FREE_SHIPPING_THRESHOLD_CENTS", 6000)
	viper.SetDefault("SHIPPING_FLAT_FEE_CENTS", 599)
	viper.SetDefault("TAX_RATE_BP", 800)
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")

	// --- Database ---
	db, err := openDatabase(viper.GetString("DATABASE_DSN"))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.User{}, &models.CartLine{}, &models.OrderDraft{}, &models.OrderRecord{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set, order events will not be published")
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	draftRepo := repositories.NewGORMDraftRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	seedProducts(productRepo)

	// --- Services and pipeline ---
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	authService := services.NewAuthService(userRepo, viper.GetString("JWT_SECRET"))
	orderService := services.NewOrderService(orderRepo)

	policy := checkout.ShippingPolicy{
		FreeShippingThresholdCents: viper.GetInt64("FREE_SHIPPING_THRESHOLD_CENTS"),
		FlatFeeCents:               viper.GetInt64("SHIPPING_FLAT_FEE_CENTS"),
		TaxRateBasisPoints:         viper.GetInt64("TAX_RATE_BP"),
	}

	processor := payment.NewHTTPClient(viper.GetString("STRIPE_API_URL"), viper.GetString("STRIPE_SECRET_KEY"))
	initiator := checkout.NewInitiator(draftRepo, processor)

	dispatcher := notify.NewDispatcher(
		viper.GetString("CUSTOMER_WEBHOOK_URL"),
		viper.GetString("ADMIN_WEBHOOK_URL"),
		viper.GetString("ADMIN_EMAIL"),
	)

	var events checkout.EventPublisher
	if mqClient != nil {
		events = mqClient
	}
	reconciler := checkout.NewReconciler(draftRepo, orderRepo, cartService, dispatcher, events)

	// --- Handlers ---
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(cartService, initiator, reconciler, policy, viper.GetString("APP_BASE_URL"))
	orderHandler := handlers.NewOrderHandler(orderService)
	authHandler := handlers.NewAuthHandler(authService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New()) // Request logger

	apiV1 := app.Group("/api/v1")

	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)

	// Checkout works for guests and authenticated shoppers alike; identity
	// is attached when a token is present.
	checkoutHandler.RegisterRoutes(apiV1.Group("", middleware.OptionalAuth(authService)))

	// Order history requires a logged-in shopper.
	orderHandler.RegisterRoutes(apiV1.Group("", middleware.AuthRequired(authService)))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Order events consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			handler := func(msg amqp.Delivery) error {
				// Fulfilment and inventory hooks go here; for now the event
				// is just recorded.
				log.Printf("Received order event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeOrderEvents(handler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// openDatabase selects the GORM driver from the DSN: postgres for
// postgres-style DSNs, sqlite for everything else (a file path).
func openDatabase(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}

// seedProducts populates an empty catalog with a starter assortment.
func seedProducts(repo repositories.ProductRepository) {
	existing, err := repo.GetAll()
	if err != nil {
		log.Printf("Error checking catalog before seeding: %v", err)
		return
	}
	if len(existing) > 0 {
		return
	}

	products := []models.Product{
		{ID: "prod-1", Name: "Cannoli 6pcs", Description: "Sicilian cannoli filled to order", Brand: "Dolce Vita", PriceCents: 1175, Stock: 40},
		{ID: "prod-2", Name: "Matcha KitKat", Description: "Green tea wafer bars, 12 minis", Brand: "Nestle JP", PriceCents: 899, Stock: 120},
		{ID: "prod-3", Name: "Turron de Alicante", Description: "Crunchy almond nougat bar", Brand: "El Almendro", PriceCents: 1250, Stock: 60},
		{ID: "prod-4", Name: "Salted Licorice Mix", Description: "Dutch double-salt assortment", Brand: "Venco", PriceCents: 650, Stock: 85},
	}

	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		} else {
			log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
		}
	}
}
