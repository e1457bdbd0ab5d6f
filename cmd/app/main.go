package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/janitor/internal"
	pkgconfig "github.com/starford/janitor/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return cli.ShowAppHelp(cmd)
	}

	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithNotesDir(cmd.Args().First()),
		internal.WithDryRun(cmd.Bool("dry-run")),
		internal.WithWatch(cmd.Bool("watch")),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func backlinks(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return cli.ShowSubcommandHelp(cmd)
	}
	if err := internal.QueryBacklinks(ctx, cmd.Args().Get(0), cmd.Args().Get(1), os.Stdout); err != nil {
		return fmt.Errorf("query error: %w", err)
	}
	return nil
}

// applyFlags overrides config values with the flags set on the command line.
func applyFlags(cmd *cli.Command, cfg *internal.Config) error {
	if cmd.IsSet("index") {
		cfg.Index.Path = cmd.String("index")
	}
	if cmd.IsSet("damping") {
		cfg.Rank.Damping = cmd.Float("damping")
	}
	if cmd.IsSet("log-level") {
		if err := cfg.App.LogLevel.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "note-link-janitor",
		Usage:     "Maintain ranked backlinks sections in a directory of Markdown notes",
		ArgsUsage: "NOTE_DIRECTORY",
		Action:    run,
		Commands: []*cli.Command{
			{
				Name:      "backlinks",
				Usage:     "Print the ranked backlinks of a note recorded in an index snapshot",
				ArgsUsage: "INDEX_PATH TITLE",
				Action:    backlinks,
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the notes that would change without writing them",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Keep running and update notes whenever they change",
			},
			&cli.StringFlag{
				Name:  "index",
				Usage: "Write a SQLite snapshot of links and ranks to `PATH`",
			},
			&cli.FloatFlag{
				Name:  "damping",
				Usage: "PageRank damping factor",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
