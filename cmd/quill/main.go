package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/alphabot-ai/quill/internal/auth"
	"github.com/alphabot-ai/quill/internal/config"
	httpapp "github.com/alphabot-ai/quill/internal/http"
	"github.com/alphabot-ai/quill/internal/rate"
	"github.com/alphabot-ai/quill/internal/store/sqlite"
	"github.com/alphabot-ai/quill/internal/upload"
)

// version is overridden with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	app := &cli.App{
		Name:    "quill",
		Usage:   "A small blog backend",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
				EnvVars: []string{"QUILL_CONFIG"},
			},
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server (default)",
				Action: runServe,
			},
			{
				Name:   "deploy",
				Usage:  "Apply migrations and make sure the configured admin exists",
				Action: runDeploy,
			},
			{
				Name:  "version",
				Usage: "Print the build version",
				Action: func(c *cli.Context) error {
					fmt.Println("quill", version)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, err
	}
	cfg.Version = version
	return cfg, nil
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.LogLevel)

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	photos, err := upload.NewStorage(cfg.UploadDir, cfg.AllowedExtensions)
	if err != nil {
		return err
	}
	authSvc := auth.NewService(store, []byte(cfg.SecretKey), cfg.TokenTTL, logger)
	server := httpapp.NewServer(store, authSvc, photos, rate.NewMemory(), cfg, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	green := color.New(color.FgGreen)
	green.Print("  ▶ ")
	fmt.Printf("quill %s\n", version)
	green.Print("  ▶ ")
	fmt.Printf("Listening: %s\n", cfg.Addr)
	green.Print("  ▶ ")
	fmt.Printf("Database:  %s\n", cfg.DBPath)
	green.Print("  ▶ ")
	fmt.Printf("Uploads:   %s\n\n", photos.Dir())

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("quill listening", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// runDeploy opens the database, which applies pending migrations, then
// creates or promotes the configured superuser.
func runDeploy(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.LogLevel)

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	authSvc := auth.NewService(store, []byte(cfg.SecretKey), cfg.TokenTTL, logger)
	p, err := authSvc.EnsureSuperuser(c.Context, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("ensure superuser: %w", err)
	}

	color.Green("✓ Database ready: %s", cfg.DBPath)
	color.Green("✓ Superuser %s <%s> (id %d)", p.User.Name, p.User.Email, p.User.ID)
	return nil
}

// setupLogger also installs the logger as the slog default, which the store
// derives its own logger from.
func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}
