package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/day-s-ea/Calendar-Todo/internal"
	"github.com/day-s-ea/Calendar-Todo/internal/mcpserver"
	"github.com/day-s-ea/Calendar-Todo/internal/planner"
	"github.com/day-s-ea/Calendar-Todo/internal/storage"
	pkgconfig "github.com/day-s-ea/Calendar-Todo/pkg/config"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

// runMCP serves the planner tools over stdio for MCP clients.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var provider storage.Provider
	switch cfg.Storage.Driver {
	case internal.StorageDriverSQLite:
		db, err := storage.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
		defer db.Close()
		provider = db
	default:
		if err := os.MkdirAll(cfg.Storage.Path, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		fs, err := storage.NewFS(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
		provider = fs
	}

	store := planner.NewStore(provider, planner.WithHorizon(cfg.Planner.HorizonDays))
	store.Load()

	return mcpserver.New(store).ServeStdio()
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "planner",
		Usage:  "Personal calendar with per-day events, to-dos, categories, and recurring schedules",
		Action: run,
		Flags:  []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve planner tools over stdio for MCP clients",
				Action: runMCP,
				Flags:  []cli.Flag{configFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
