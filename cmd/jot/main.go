package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/jot/internal"
	pkgconfig "github.com/starford/jot/pkg/config"
)

var version = "dev"

// loadConfig reads the config file named by --config, writing the defaults
// there on first run.
func loadConfig(cmd *cli.Command) (*internal.Config, string, error) {
	path := internal.ExpandHome(cmd.String("config"))
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOrInit(path, cfg); err != nil {
		return nil, path, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, path, nil
}

// withApp opens the configured store around fn.
func withApp(fn func(ctx context.Context, app *internal.App, cmd *cli.Command) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		app, err := internal.Open(ctx,
			internal.WithConfig(cfg),
			internal.WithVersion(version),
		)
		if err != nil {
			return fmt.Errorf("app open error: %w", err)
		}
		defer app.Close()
		return fn(ctx, app, cmd)
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "jot",
		Usage:  "Terminal notes and todos with nesting, aliases and due dates",
		Action: withApp(listActive),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: internal.DefaultConfigPath,
				Value:       internal.DefaultConfigPath,
				Sources:     cli.EnvVars("JOT_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			listCommand(),
			addCommand(),
			editCommand(),
			removeCommand(),
			showCommand(),
			viewCommand(),
			configCommand(),
			serveCommand(),
			watchCommand(),
			mcpCommand(),
			{
				Name:  "version",
				Usage: "Print the jot version",
				Action: func(context.Context, *cli.Command) error {
					fmt.Println(version)
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "jot: %v\n", err)
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
