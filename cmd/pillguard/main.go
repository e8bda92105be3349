package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pillguard/pillguard/internal/adherence"
	"github.com/pillguard/pillguard/internal/api"
	"github.com/pillguard/pillguard/internal/assistant"
	"github.com/pillguard/pillguard/internal/cli"
	"github.com/pillguard/pillguard/internal/config"
	"github.com/pillguard/pillguard/internal/drugdb"
	"github.com/pillguard/pillguard/internal/medication"
	"github.com/pillguard/pillguard/internal/monitor"
	"github.com/pillguard/pillguard/internal/notify"
	"github.com/pillguard/pillguard/internal/schedule"
	"github.com/pillguard/pillguard/internal/store"
	"github.com/pillguard/pillguard/internal/tracker"
)

var (
	configPath = flag.String("config", "", "Path to config file")
	dataDir    = flag.String("data", "", "Path to data directory")
	serverMode = flag.Bool("server", false, "Run in server mode")
	version    = "dev"
)

// App holds the application components
type App struct {
	config    *config.Config
	store     *store.Store
	meds      *medication.Store
	tracker   *tracker.Tracker
	adherence *adherence.Aggregator
	drugs     *drugdb.Client
	assistant *assistant.Client
	logger    *zap.Logger
}

func main() {
	// A .env next to the binary is the easiest place for API keys.
	godotenv.Load()

	// Handle subcommands before flag parsing
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "add":
			withCLI(func(c *cli.CLI) { c.HandleAddCommand(os.Args[2:]) })
			return
		case "list", "ls":
			withCLI(func(c *cli.CLI) { c.HandleListCommand() })
			return
		case "take":
			withCLI(func(c *cli.CLI) { c.HandleTakeCommand(os.Args[2:]) })
			return
		case "due":
			withCLI(func(c *cli.CLI) { c.HandleDueCommand() })
			return
		case "stats":
			withCLI(func(c *cli.CLI) { c.HandleStatsCommand(os.Args[2:]) })
			return
		case "refill":
			withCLI(func(c *cli.CLI) { c.HandleRefillCommand() })
			return
		case "search":
			withCLI(func(c *cli.CLI) { c.HandleSearchCommand(os.Args[2:]) })
			return
		case "help", "--help", "-h":
			cli.PrintExtendedHelp()
			return
		case "version", "--version", "-v":
			fmt.Printf("PillGuard version %s\n", version)
			return
		}
	}

	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting PillGuard", zap.String("version", version))

	app, err := newApp(logger)
	if err != nil {
		logger.Fatal("Failed to start", zap.Error(err))
	}
	defer app.store.Close()

	app.runServer()
}

// newApp loads configuration and wires every component.
func newApp(logger *zap.Logger) (*App, error) {
	cfg, err := config.Load(*configPath, *dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	st, err := store.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	meds, err := medication.NewStore(st.DB())
	if err != nil {
		st.Close()
		return nil, err
	}

	if _, err := meds.SeedIfEmpty(schedule.Live().ZoneName()); err != nil {
		logger.Warn("Failed to seed starter medications", zap.Error(err))
	}

	return &App{
		config:    cfg,
		store:     st,
		meds:      meds,
		tracker:   tracker.New(meds, st, logger),
		adherence: adherence.New(st, logger),
		drugs:     drugdb.NewClient(cfg.Services, st, logger),
		assistant: assistant.NewClient(cfg.Services.Assistant, logger),
		logger:    logger,
	}, nil
}

// withCLI builds the app quietly and runs one subcommand against it.
func withCLI(run func(*cli.CLI)) {
	logger := zap.NewNop()
	app, err := newApp(logger)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer app.store.Close()

	run(&cli.CLI{
		Meds:      app.meds,
		Tracker:   app.tracker,
		Adherence: app.adherence,
		Drugs:     app.drugs,
		Logger:    logger,
	})
}

func (app *App) runServer() {
	notifier := app.buildNotifier()

	mon := monitor.New(monitor.Config{
		Interval:   time.Duration(app.config.Monitor.IntervalSeconds) * time.Second,
		Window:     time.Duration(app.config.Monitor.WindowSeconds) * time.Second,
		RefillCron: app.config.Monitor.RefillCron,
	}, app.meds, app.store, notifier, app.logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := mon.Start(ctx); err != nil {
		app.logger.Fatal("Failed to start dose monitor", zap.Error(err))
	}

	server := api.New(app.config, app.meds, app.tracker, app.adherence,
		app.drugs, app.assistant, app.logger)

	go func() {
		if err := server.Start(); err != nil {
			app.logger.Fatal("Server error", zap.Error(err))
		}
	}()

	app.logger.Info("Server started",
		zap.String("address", app.config.Server.Address),
		zap.Int("port", app.config.Server.Port),
		zap.String("url", fmt.Sprintf("http://localhost:%d", app.config.Server.Port)),
	)

	if app.assistant.Enabled() {
		app.logger.Info("Assistant enabled", zap.String("model", app.config.Services.Assistant.Model))
	} else {
		app.logger.Info("Assistant not configured, serving offline fallbacks")
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.logger.Info("Shutting down...")

	mon.Stop()
	if err := server.Shutdown(); err != nil {
		app.logger.Error("Server shutdown error", zap.Error(err))
	}
}

func (app *App) buildNotifier() notify.Notifier {
	channels := []notify.Notifier{notify.NewLogNotifier(app.logger)}

	if app.config.Notify.Telegram.Enabled {
		tg, err := notify.NewTelegramNotifier(app.config.Notify.Telegram, app.logger)
		if err != nil {
			app.logger.Warn("Failed to start Telegram notifier", zap.Error(err))
		} else {
			channels = append(channels, tg)
			app.logger.Info("Telegram notifications enabled")
		}
	}

	return notify.NewMulti(app.logger, channels...)
}
