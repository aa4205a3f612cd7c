package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

const defaultConfigPath = "config/config.yaml"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) && configPath == defaultConfigPath {
		// No config file at the default location: run on defaults.
		return cfg, nil
	}
	if err := pkgconfig.Load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func generate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Generate(ctx, cmd.Bool("watch"), internal.WithConfig(cfg))
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Serve(ctx, internal.WithConfig(cfg))
}

func validate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Validate(ctx, internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:  "ansuz",
		Usage: "Convert a documentation tree into a static MCP bundle and bridge requests to it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: defaultConfigPath,
				Value:       defaultConfigPath,
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Walk the source tree and write the bundle",
				Action: generate,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Keep running and regenerate on source changes",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the bundle over MCP stdio transport",
				Action: serve,
			},
			{
				Name:   "validate",
				Usage:  "Check the bundle against a freshly computed plan",
				Action: validate,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
