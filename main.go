package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/gorm"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/handlers"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/schema"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
)

var (
	v = viper.New()

	watchQueue   string
	watchBinding string
)

var rootCmd = &cobra.Command{
	Use:          "storefront",
	Short:        "Storefront catalog and order database tooling",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve health and schema endpoints over HTTP",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every storefront table",
	RunE:  runMigrate,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check foreign keys and compare the declared schema with the database",
	RunE:  runCheck,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert a small demo catalog",
	RunE:  runSeed,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Log row changes published to RabbitMQ",
	RunE:  runWatch,
}

func init() {
	rootCmd.PersistentFlags().String("db-url", "", "Database URL (libsql://, postgres:// or a SQLite file); overrides TURSO_DB_URL")
	rootCmd.PersistentFlags().String("db-auth-token", "", "Auth token for remote libSQL; overrides TURSO_DB_AUTH_TOKEN")
	rootCmd.PersistentFlags().String("rabbitmq-url", "", "RabbitMQ URL for the change feed; overrides RABBITMQ_URL")
	serveCmd.Flags().String("port", "", "Listen address; overrides APP_PORT")
	watchCmd.Flags().StringVar(&watchQueue, "queue", "storefront_changes", "Queue to consume from")
	watchCmd.Flags().StringVar(&watchBinding, "binding", "#", "Routing key pattern, e.g. products.*")

	for key, flag := range map[string]string{
		"TURSO_DB_URL":        "db-url",
		"TURSO_DB_AUTH_TOKEN": "db-auth-token",
		"RABBITMQ_URL":        "rabbitmq-url",
	} {
		if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			log.Fatalf("Failed to bind flag %s: %v", flag, err)
		}
	}
	if err := v.BindPFlag("APP_PORT", serveCmd.Flags().Lookup("port")); err != nil {
		log.Fatalf("Failed to bind flag port: %v", err)
	}

	rootCmd.AddCommand(serveCmd, migrateCmd, checkCmd, seedCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDatabase loads configuration and initialises the shared handle.
func openDatabase() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Init(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

// newApp builds the Fiber app with the operational routes.
func newApp(db *gorm.DB) (*fiber.App, error) {
	declared, err := schema.Declared()
	if err != nil {
		return nil, err
	}
	schemaHandler := handlers.NewSchemaHandler(db, declared)

	app := fiber.New()
	app.Use(logger.New())
	app.Get("/health", schemaHandler.HandleHealth)

	apiV1 := app.Group("/api/v1")
	schemaHandler.RegisterRoutes(apiV1)
	return app, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := openDatabase()
	if err != nil {
		return err
	}

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Println("Database schema migrated")
	}

	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return err
		}
		defer mqClient.Close()
		if err := db.Use(events.NewChangeFeed(mqClient)); err != nil {
			return err
		}
		log.Println("Publishing row changes to RabbitMQ")
	}

	app, err := newApp(db)
	if err != nil {
		return err
	}

	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	_, db, err := openDatabase()
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Printf("Migrated %d tables", len(models.All()))
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	_, db, err := openDatabase()
	if err != nil {
		return err
	}
	problems, err := checkSchema(db)
	if err != nil {
		return err
	}
	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return fmt.Errorf("schema check found %d problem(s)", len(problems))
	}
	fmt.Fprintln(cmd.OutOrStdout(), "schema OK")
	return nil
}

// checkSchema runs the static referential check and the live comparison.
func checkSchema(db *gorm.DB) ([]string, error) {
	declared, err := schema.Declared()
	if err != nil {
		return nil, err
	}
	problems := schema.Check(declared)
	live, err := schema.Inspect(db, declared)
	if err != nil {
		return nil, err
	}
	return append(problems, live...), nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	_, db, err := openDatabase()
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	catalog := services.NewCatalogService(
		repositories.NewGORMProductRepository(db),
		repositories.NewGORMCollectionRepository(db),
	)
	return seedCatalog(catalog)
}

// seedCatalog populates the catalog with a couple of collections and
// products.
func seedCatalog(catalog *services.CatalogService) error {
	summerDescription := "Light layers for warm days"
	collections := []models.Collection{
		{Name: "Summer", Slug: "summer", Description: &summerDescription},
		{Name: "Accessories", Slug: "accessories"},
	}
	for i := range collections {
		if err := catalog.CreateCollection(&collections[i]); err != nil {
			return fmt.Errorf("failed to seed collection %s: %w", collections[i].Slug, err)
		}
		log.Printf("Seeded collection: %s (ID: %s)", collections[i].Name, collections[i].ID)
	}

	tagline := "Breathable washed linen"
	products := []struct {
		product     models.Product
		collections []string
	}{
		{
			product: models.Product{
				Name: "Linen Shirt", Slug: "linen-shirt", Tagline: &tagline, Price: 4500,
				ImageURL: "https://cdn.example.com/linen-shirt.png",
				Images:   []models.ProductImage{{URL: "https://cdn.example.com/linen-shirt-back.png"}},
				Variants: []models.ProductVariant{
					{Name: "S", Stock: 5, Options: []models.VariantOption{{Name: "size", Value: "S"}}},
					{Name: "M", Stock: 8, Options: []models.VariantOption{{Name: "size", Value: "M"}}},
				},
			},
			collections: []string{"summer"},
		},
		{
			product: models.Product{
				Name: "Canvas Tote", Slug: "canvas-tote", Price: 1800, Discount: 300,
				ImageURL: "https://cdn.example.com/canvas-tote.png",
				Variants: []models.ProductVariant{
					{Name: "Natural", Stock: 20, Options: []models.VariantOption{{Name: "color", Value: "natural"}}},
				},
			},
			collections: []string{"summer", "accessories"},
		},
	}
	for i := range products {
		p := &products[i].product
		if err := catalog.CreateProduct(p, products[i].collections...); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.Slug, err)
		}
		log.Printf("Seeded product: %s (ID: %s) in %s", p.Name, p.ID, strings.Join(products[i].collections, ", "))
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if cfg.RabbitMQURL == "" {
		return fmt.Errorf("RABBITMQ_URL is required to watch changes")
	}

	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		return err
	}
	defer mqClient.Close()

	err = mqClient.Consume(watchQueue, watchBinding, func(msg amqp.Delivery) error {
		log.Printf("Received change %s: %s", msg.RoutingKey, string(msg.Body))
		return nil
	})
	if err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Stopped watching changes")
	return nil
}
