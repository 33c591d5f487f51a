package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/starford/jot/internal"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the notes over HTTP with live change events",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Usage: "Override app.http.port"},
		},
		Action: withApp(func(ctx context.Context, app *internal.App, cmd *cli.Command) error {
			if cmd.IsSet("port") {
				app.Config().App.HTTP.Port = int(cmd.Int("port"))
				if err := app.Config().App.HTTP.Validate(); err != nil {
					return err
				}
			}
			return app.Serve(ctx)
		}),
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Reprint the table whenever the database changes",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "find", Aliases: []string{"f"}, Usage: "Only notes whose description contains `TEXT`"},
		},
		Action: withApp(func(ctx context.Context, app *internal.App, cmd *cli.Command) error {
			return app.Watch(ctx, cmd.String("find"))
		}),
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the note tools to an MCP client over stdio",
		Action: withApp(func(ctx context.Context, app *internal.App, _ *cli.Command) error {
			return app.ServeMCP(ctx)
		}),
	}
}
