package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/starford/jot/internal/editor"
	pkgconfig "github.com/starford/jot/pkg/config"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect or change the configuration",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration",
				Action: func(_ context.Context, cmd *cli.Command) error {
					cfg, path, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					data, err := yaml.Marshal(cfg)
					if err != nil {
						return err
					}
					fmt.Printf("# %s\n%s", path, data)
					return nil
				},
			},
			{
				Name:  "edit",
				Usage: "Open the config file in the editor",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, path, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					if err := editor.New(cfg.Editor.Resolve()).Open(ctx, path); err != nil {
						return err
					}
					// Report a broken file now rather than on the next run.
					return pkgconfig.Load(path, cfg)
				},
			},
			{
				Name:      "set-dir",
				Usage:     "Keep the database in DIR, or in the working directory",
				ArgsUsage: "[DIR|pwd]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					cfg, path, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					if err := cfg.Store.SetDir(cmd.Args().First()); err != nil {
						return err
					}
					if err := pkgconfig.Save(path, cfg); err != nil {
						return err
					}
					fmt.Printf("Database directory set to: %s\n", cfg.Store.Dir)
					return nil
				},
			},
			{
				Name:      "set-name",
				Usage:     "Use NAME.sqlite as the database file",
				ArgsUsage: "[NAME]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					cfg, path, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					if err := cfg.Store.SetName(cmd.Args().First()); err != nil {
						return err
					}
					if err := pkgconfig.Save(path, cfg); err != nil {
						return err
					}
					fmt.Printf("Database name set to: %s\n", cfg.Store.Name)
					if _, err := os.Stat(cfg.Store.Path()); err != nil {
						fmt.Printf("A new database will be created at %s\n", cfg.Store.Path())
					}
					return nil
				},
			},
		},
	}
}
