package main

import (
	"context"
	"log"
	"os"

	"github.com/example/catalog-service/config"
	"github.com/example/catalog-service/middleware/adminguard"
	"github.com/example/catalog-service/modules/catalog"
	"github.com/example/catalog-service/modules/httpserver"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Println("=== Catalog Service ===")
	log.Printf("Store: %s", cfg.DBDriver)
	log.Printf("NATS Port: %d", cfg.NATSPort)
	log.Printf("Hard delete enabled: %t", cfg.HardDeleteEnabled)

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
		mono.WithNATSPort(cfg.NATSPort),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	logger := app.Logger()

	// Middleware must be registered first to intercept service registrations
	if cfg.HardDeleteEnabled {
		guard, err := adminguard.New(logger.WithModule("admin-guard"),
			adminguard.WithSecret(cfg.AdminSecret),
			adminguard.WithIssuer(cfg.AdminIssuer),
		)
		if err != nil {
			log.Fatalf("Failed to create admin guard middleware: %v", err)
		}
		app.Register(guard)
	}

	catalogModule := catalog.NewModule(catalog.Config{
		Driver:            cfg.DBDriver,
		DSN:               cfg.DBDSN,
		Debug:             cfg.DBDebug,
		HardDeleteEnabled: cfg.HardDeleteEnabled,
	}, logger.WithModule(catalog.ModuleName))
	app.Register(catalogModule)

	if cfg.HTTPAddr != "" {
		app.Register(httpserver.NewModule(cfg.HTTPAddr, logger.WithModule("http-server"), catalogModule))
	}

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg config.Config) {
	log.Println("")
	log.Println("=== Application Started ===")
	log.Printf("NATS available at nats://localhost:%d", cfg.NATSPort)
	log.Println("Services:")
	log.Println("  services.products.create_product     - Create a product")
	log.Println("  services.products.find_all_products  - List available products by page")
	log.Println("  services.products.find_one_product   - Get a product by id")
	log.Println("  services.products.update_one_product - Partially update a product")
	log.Println("  services.products.delete_one_product - Soft delete a product")
	if cfg.HardDeleteEnabled {
		log.Println("  services.products.hard_delete_product - Physically delete a product (admin token)")
	}
	if cfg.HTTPAddr != "" {
		log.Printf("Health: http://localhost%s/health", cfg.HTTPAddr)
	}
	log.Println("")
	log.Println("Example:")
	log.Println(`  nats request services.products.create_product '{"name":"Pen","price":1.5,"stock":10}'`)
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")
}
