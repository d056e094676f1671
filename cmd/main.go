package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/exp/zapslog"

	_ "coffeemachine/docs"
	"coffeemachine/internal/handlers"
	"coffeemachine/internal/logger"
	"coffeemachine/internal/machine"
	"coffeemachine/internal/repository"
	"coffeemachine/internal/repository/db"
	"coffeemachine/internal/server"
	"coffeemachine/internal/service"
)

const defaultTick = 1 * time.Second

// @title           Coffee Machine API
// @version         1.0
// @description     Control and observe a simulated drip-free espresso appliance.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// open DB
	conn, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	sink := service.NewJournalSink(machine.NewMemorySink(), repos.Events, log)
	display := service.NewLogDisplay(log)

	ctrl, err := machine.New(
		machineConfig(),
		display,
		sink,
		zapslog.NewHandler(log.Core()),
	)
	if err != nil {
		log.Fatalw("failed to build controller", "err", err)
	}

	services := service.NewService(ctrl, sink, repos, log, authConfig())
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start the real-time driver loop
	go services.Driver.Run(ctx, tickInterval())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// machineConfig reads controller tuning from config, falling back to the
// reference appliance defaults for anything unset.
func machineConfig() machine.Config {
	cfg := machine.DefaultConfig()
	if v := viper.GetInt("machine.warmup_steps"); v > 0 {
		cfg.WarmupSteps = v
	}
	if v := viper.GetFloat64("machine.cup_wait_seconds"); v > 0 {
		cfg.CupWaitSeconds = v
	}
	if v := viper.GetFloat64("machine.heat_step_c"); v > 0 {
		cfg.HeatStepC = v
	}
	if v := viper.GetInt("machine.heat_timeout_ticks"); v > 0 {
		cfg.HeatTimeoutTicks = v
	}
	return cfg
}

func authConfig() service.AuthConfig {
	ttl := viper.GetDuration("auth.token_ttl")
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return service.AuthConfig{
		SigningKey: viper.GetString("auth.signing_key"),
		TokenTTL:   ttl,
	}
}

func tickInterval() time.Duration {
	if d := viper.GetDuration("machine.tick"); d > 0 {
		return d
	}
	return defaultTick
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "coffee.db")
		dbPath = "coffee.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
