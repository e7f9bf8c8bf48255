package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pelagic-data/dive.report/internal/api"
	"github.com/pelagic-data/dive.report/internal/config"
	"github.com/pelagic-data/dive.report/internal/db"
	"github.com/pelagic-data/dive.report/internal/version"
)

var (
	dbFile        = flag.String("db", "glider_data.db", "Path to the sqlite database")
	listen        = flag.String("listen", ":8080", "Listen address")
	configPath    = flag.String("config", "", "Path to a segmentation config JSON file")
	migrationsDir = flag.String("migrations", "migrations", "Path to the migrations directory")
	backfill      = flag.Bool("backfill", false, "Re-segment the full sample history at startup")
)

func main() {
	flag.Parse()

	if flag.Arg(0) == "migrate" {
		runMigrate(flag.Args()[1:])
		return
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	log.Printf("dive-report %s (%s, built %s)", version.Version, version.GitSHA, version.BuildTime)

	cfg := config.DefaultSegmentationConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadSegmentationConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	worker := db.NewDiveWorker(database, *cfg.DiveDepthThreshold, *cfg.ModelVersion)
	worker.Interval = cfg.Interval()
	worker.Window = cfg.Window()

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *backfill {
		log.Print("Backfilling dives from full sample history...")
		if err := worker.RunFullHistory(ctx); err != nil {
			log.Fatalf("Failed to backfill dives: %v", err)
		}
	}

	worker.Start()
	defer worker.Stop()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()

		// mount the admin debugging routes (accessible only in dev mode or over Tailscale)
		database.AttachAdminRoutes(mux)

		apiServer := api.NewServer(database, *cfg.DepthUnits)
		mux.Handle("/api/", apiServer.ServeMux())

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			log.Printf("Listening on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		// Create a shutdown context with a timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	wg.Wait()
}

// runMigrate handles the 'migrate' subcommand. The database is opened without
// schema initialization so the migrations manage it themselves.
func runMigrate(args []string) {
	if len(args) < 1 {
		log.Print("Usage: dive-report migrate <up|down|status>")
		os.Exit(1)
	}

	database, err := db.OpenDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	switch args[0] {
	case "up":
		log.Print("Running migrations...")
		if err := database.MigrateUp(*migrationsDir); err != nil {
			log.Fatalf("Migration up failed: %v", err)
		}
		log.Print("✓ All migrations applied successfully")

	case "down":
		log.Print("Rolling back one migration...")
		if err := database.MigrateDown(*migrationsDir); err != nil {
			log.Fatalf("Migration down failed: %v", err)
		}
		log.Print("✓ Migration rolled back successfully")

	case "status":
		version, dirty, err := database.MigrateVersion(*migrationsDir)
		if err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}
		latest, err := db.GetLatestMigrationVersion(*migrationsDir)
		if err != nil {
			log.Fatalf("Failed to get latest migration version: %v", err)
		}
		log.Printf("Current version: %d (dirty: %v), latest available: %d", version, dirty, latest)

	default:
		log.Printf("Unknown migrate action: %s", args[0])
		os.Exit(1)
	}
}
