package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/warelog/handheld-go/internal/adapters/api"
	"github.com/warelog/handheld-go/internal/adapters/httpapi"
	"github.com/warelog/handheld-go/internal/adapters/persistence"
	"github.com/warelog/handheld-go/internal/application/common"
	"github.com/warelog/handheld-go/internal/application/setup"
	appsync "github.com/warelog/handheld-go/internal/application/sync"
	appwizard "github.com/warelog/handheld-go/internal/application/wizard"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/infrastructure/config"
	"github.com/warelog/handheld-go/internal/infrastructure/database"
	"github.com/warelog/handheld-go/internal/infrastructure/pidfile"
)

func main() {
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	flag.Parse()

	fmt.Println("Handheld Daemon v0.1.0")
	fmt.Println("======================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig()

	// Acquire PID file lock to prevent multiple instances
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)

	if err := pf.Acquire(); err != nil {
		if *forceFlag {
			fmt.Println("Force mode enabled - attempting to kill existing daemon...")
			if killErr := pf.KillExisting(); killErr != nil {
				log.Fatalf("Failed to kill existing daemon: %v", killErr)
			}
			fmt.Println("Existing daemon killed")

			if err := pf.Acquire(); err != nil {
				log.Fatalf("Failed to acquire PID file lock after killing existing daemon: %v", err)
			}
		} else {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to kill the existing daemon", err)
		}
	}

	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	// 1. Database
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	fmt.Println("Database connected")

	clock := shared.NewRealClock()

	// 2. Repositories
	taskRepo := persistence.NewGormTaskRepository(db, clock)
	productRepo := persistence.NewGormProductRepository(db)
	templateRepo := persistence.NewGormTemplateRepository(db)
	sessionLogRepo := persistence.NewGormSessionLogRepository(db, clock)

	// Sessions live only in daemon memory; a restart discards every
	// in-flight wizard. Leave a marker so interrupted sessions can be
	// traced back to this restart.
	if err := sessionLogRepo.Log(context.Background(), "", "", "INFO",
		"daemon started; in-flight wizard sessions from a previous run are discarded", nil); err != nil {
		log.Printf("Warning: failed to write restart marker: %v", err)
	}

	// 3. Warehouse server client
	serverClient := api.NewWarehouseClientWithConfig(
		cfg.Server.BaseURL,
		cfg.Server.DeviceToken,
		cfg.Server.Retry.MaxAttempts,
		cfg.Server.Retry.BackoffBase,
		clock,
	)
	fmt.Println("Warehouse server client initialized")

	// 4. Application services
	submissionService := appwizard.NewSubmissionService(serverClient, taskRepo, clock)

	sessionManager := appwizard.NewManager(appwizard.SessionDeps{
		Tasks:      taskRepo,
		Templates:  templateRepo,
		Catalog:    productRepo,
		Submission: submissionService,
		Commands:   serverClient,
		Clock:      clock,
		Debounce:   cfg.Wizard.ScanDebounce,
	})

	syncService := appsync.NewService(serverClient, taskRepo, productRepo, templateRepo)

	// 5. Mediator and handlers
	med := common.NewMediator()
	registry := setup.NewHandlerRegistry(sessionManager, taskRepo, syncService)
	if err := registry.RegisterAllHandlers(med); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}

	// 6. Daemon server
	socketPath := cfg.Daemon.SocketPath
	fmt.Printf("Starting daemon server on: %s\n", socketPath)

	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	// Request logs are persisted to the session_logs table so support can
	// pull them off the device after the fact
	requestLogger := persistence.NewSessionLoggerAdapter(sessionLogRepo, "", "")

	daemonServer, err := httpapi.NewDaemonServer(med, requestLogger, socketPath)
	if err != nil {
		return fmt.Errorf("failed to create daemon server: %w", err)
	}

	fmt.Println("\nDaemon is ready to accept connections")
	fmt.Println("Press Ctrl+C to stop")

	if err := daemonServer.Start(); err != nil {
		return fmt.Errorf("daemon server error: %w", err)
	}

	fmt.Println("\nDaemon stopped")
	return nil
}
