package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/jot/internal"
	"github.com/starford/jot/internal/models"
	"github.com/starford/jot/internal/noteservice"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "Print the summary table",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "find", Aliases: []string{"f"}, Usage: "Only notes whose description contains `TEXT`"},
			&cli.BoolFlag{Name: "flat", Usage: "Ignore nesting"},
			&cli.BoolFlag{Name: "all", Aliases: []string{"v"}, Usage: "Every status, with full text"},
		},
		Action: withApp(func(ctx context.Context, app *internal.App, cmd *cli.Command) error {
			mode := models.ModeNested
			if cmd.Bool("flat") {
				mode = models.ModeFlat
			}
			opts := noteservice.ListOptions{Statuses: models.ActiveStatuses, Mode: mode, Find: cmd.String("find")}
			if cmd.Bool("all") {
				opts = noteservice.VerboseList(mode, cmd.String("find"))
			}
			return app.Notes().List(ctx, os.Stdout, opts)
		}),
	}
}

func listActive(ctx context.Context, app *internal.App, _ *cli.Command) error {
	return app.Notes().List(ctx, os.Stdout, noteservice.ActiveList(""))
}

// attributeFlags are shared by add and edit.
func attributeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "note", Aliases: []string{"n"}, Usage: "Description `TEXT`"},
		&cli.BoolFlag{Name: "long", Aliases: []string{"l"}, Usage: "Write the description in the editor"},
		&cli.IntFlag{Name: "status", Aliases: []string{"s"}, Usage: "1 note, 2 todo, 3 done, 4 drop, 5 part"},
		&cli.StringFlag{Name: "due", Aliases: []string{"d"}, Usage: "YYYY-MM-DD, a phrase like 'next friday', or none"},
		&cli.IntFlag{Name: "priority", Aliases: []string{"i"}, Usage: "Priority, 0 to clear"},
		&cli.StringFlag{Name: "alias", Aliases: []string{"a"}, Usage: "Alias of up to 5 characters"},
		&cli.IntFlag{Name: "parent", Aliases: []string{"p"}, Usage: "Parent id; negative removes that parent, 0 removes all"},
	}
}

// noteInput collects the attribute flags that were given on the command line.
func noteInput(cmd *cli.Command) noteservice.NoteInput {
	var in noteservice.NoteInput
	if cmd.IsSet("note") {
		v := cmd.String("note")
		in.Description = &v
	}
	in.LongEntry = cmd.Bool("long")
	if cmd.IsSet("status") {
		v := int(cmd.Int("status"))
		in.StatusID = &v
	}
	if cmd.IsSet("due") {
		v := cmd.String("due")
		in.Due = &v
	}
	if cmd.IsSet("priority") {
		v := int(cmd.Int("priority"))
		in.Priority = &v
	}
	if cmd.IsSet("alias") {
		v := cmd.String("alias")
		in.Alias = &v
	}
	if cmd.IsSet("parent") {
		v := cmd.Int("parent")
		in.Parent = &v
	}
	return in
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a note",
		ArgsUsage: "[TEXT...]",
		Flags:     attributeFlags(),
		Action: withApp(func(ctx context.Context, app *internal.App, cmd *cli.Command) error {
			in := noteInput(cmd)
			if in.Description == nil && cmd.Args().Len() > 0 {
				text := strings.Join(cmd.Args().Slice(), " ")
				in.Description = &text
			}
			// No text at all, or an empty -n, means a long entry.
			if in.Description == nil || *in.Description == "" {
				in.LongEntry = true
			}
			if _, err := app.Notes().Add(ctx, in); err != nil {
				return err
			}
			return listActive(ctx, app, cmd)
		}),
	}
}

func editCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Change notes by id or alias",
		ArgsUsage: "ID...",
		Flags:     attributeFlags(),
		Action: withApp(func(ctx context.Context, app *internal.App, cmd *cli.Command) error {
			ids, err := resolveArgs(ctx, app, cmd)
			if err != nil || ids == nil {
				return err
			}
			in := noteInput(cmd)
			if in.Description != nil && *in.Description == "" {
				in.Description = nil
				in.LongEntry = true
			}
			if err := app.Notes().Edit(ctx, ids, in); err != nil {
				return err
			}
			return listActive(ctx, app, cmd)
		}),
	}
}

func removeCommand() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Delete notes; their children are adopted by their parents",
		ArgsUsage: "ID...",
		Action: withApp(func(ctx context.Context, app *internal.App, cmd *cli.Command) error {
			ids, err := resolveArgs(ctx, app, cmd)
			if err != nil || ids == nil {
				return err
			}
			if err := app.Notes().Remove(ctx, ids); err != nil {
				return err
			}
			return listActive(ctx, app, cmd)
		}),
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print notes with their full text",
		ArgsUsage: "ID...",
		Action: withApp(func(ctx context.Context, app *internal.App, cmd *cli.Command) error {
			ids, err := resolveArgs(ctx, app, cmd)
			if err != nil || ids == nil {
				return err
			}
			return app.Notes().Show(ctx, os.Stdout, ids)
		}),
	}
}

func viewCommand() *cli.Command {
	return &cli.Command{
		Name:      "view",
		Usage:     "Open note pages in the pager",
		ArgsUsage: "ID...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "find", Aliases: []string{"f"}, Usage: "Show excerpts matching `TEXT`"},
		},
		Action: withApp(func(ctx context.Context, app *internal.App, cmd *cli.Command) error {
			ids, err := resolveArgs(ctx, app, cmd)
			if err != nil || ids == nil {
				return err
			}
			return app.Notes().View(ctx, ids, cmd.String("find"))
		}),
	}
}

// resolveArgs maps the positional ids and aliases to note ids. It reports
// and returns nil when none of them names a note.
func resolveArgs(ctx context.Context, app *internal.App, cmd *cli.Command) ([]int64, error) {
	if cmd.Args().Len() == 0 {
		return nil, fmt.Errorf("%s: at least one id or alias is required", cmd.Name)
	}
	ids, err := app.Notes().ResolveIdentifiers(ctx, cmd.Args().Slice())
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		fmt.Printf("Note does not exist: %s\n", strings.Join(cmd.Args().Slice(), " "))
		return nil, nil
	}
	return ids, nil
}
