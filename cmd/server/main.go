// Command server serves the classification tree over HTTP. The tree is built
// from the CSV table at startup; the API answers 503 until it is ready.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"coclass/internal/api"
	"coclass/internal/config"
	"coclass/internal/engine"
	"coclass/internal/logging"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	addr       string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Serve the CoClass code tree over HTTP",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "path to the YAML config file")
	rootCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newServer(cfg *config.Config) (*echo.Echo, *api.Handler) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.WARN)
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	h := api.NewHandler(nil, cfg.EnsureASCII)
	h.RegisterRoutes(e)
	return e, h
}

func buildTree(cfg *config.Config, h *api.Handler, logger *zap.Logger) error {
	logger.Info("building classification tree in background", zap.String("input", cfg.Input))
	tree, sum, err := engine.LoadTree(cfg.Input, engine.BuildOptions{
		SyntheticDimension: cfg.SyntheticDimension,
		Logger:             logger,
	})
	if err != nil {
		return err
	}
	h.SetTree(tree)
	logger.Info("classification tree ready", zap.Duration("elapsed", sum.Elapsed))
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err = logging.New(cfg.Logging)
	if err != nil {
		return err
	}

	e, h := newServer(cfg)

	buildErr := make(chan error, 1)
	go func() {
		buildErr <- buildTree(cfg, h, logger)
	}()

	startErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		startErr <- e.Start(cfg.Server.Addr)
	}()

	for {
		select {
		case err := <-buildErr:
			if err == nil {
				buildErr = nil
				continue
			}
			logger.Error("failed to build classification tree", zap.Error(err))
			_ = e.Close()
			return err
		case err := <-startErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if logger != nil {
			_ = logger.Sync()
		}
		os.Exit(1)
	}
}
