package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todohub/internal/handlers"
	"todohub/internal/logger"
	"todohub/internal/repository"
	"todohub/internal/server"
	"todohub/internal/service"

	"github.com/spf13/viper"

	_ "todohub/docs" // swagger spec registration
)

const defaultReminderTick = time.Minute

const defaultSigningKey = "change-me"

// @title           Todohub API
// @description     Authenticated task-tracking service with bearer-token scoped todos.
// @version         1.0
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// load config.yml first so log_level applies from the very first line
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(viper.GetString("log_level"))

	// open store (in-memory sqlite by default; rebuilt on each startup)
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(db)
	services := service.NewService(repos, serviceConfig(log), log)
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start due-soon reminder sweeper
	tick := viper.GetDuration("reminder.tick")
	if tick <= 0 {
		tick = defaultReminderTick
	}
	go services.Reminder.Run(ctx, tick)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")

	viper.SetDefault("port", "8080")
	viper.SetDefault("log_level", logger.InfoLevel)
	viper.SetDefault("auth.signing_key", defaultSigningKey)
	viper.SetDefault("auth.token_ttl", 24*time.Hour)
	viper.SetDefault("auth.bcrypt_cost", 10)
	viper.SetDefault("reminder.tick", defaultReminderTick)
	viper.SetDefault("reminder.window", 24*time.Hour)

	return viper.ReadInConfig()
}

// serviceConfig assembles the injected service knobs from configuration.
func serviceConfig(log *logger.Logger) service.Config {
	key := viper.GetString("auth.signing_key")
	if key == defaultSigningKey {
		log.Warnw("auth.signing_key left at default; set a real secret before exposing this service")
	}
	return service.Config{
		SigningKey:     key,
		TokenTTL:       viper.GetDuration("auth.token_ttl"),
		BcryptCost:     viper.GetInt("auth.bcrypt_cost"),
		ReminderWindow: viper.GetDuration("reminder.window"),
	}
}

// openDB initializes the SQLite store using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dsn := viper.GetString("db.dsn")
	if dsn == "" {
		log.Infow("db.dsn not set in config; using in-memory store")
	}
	return repository.InitDB(dsn)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
