package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/dokuwiki2wikijs/internal"
	pkgconfig "github.com/starford/dokuwiki2wikijs/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func sourceArg(cmd *cli.Command) (string, error) {
	source := cmd.Args().First()
	if source == "" {
		return "", errors.New("missing <file or folder> argument")
	}
	return source, nil
}

func run(watch bool) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		source, err := sourceArg(cmd)
		if err != nil {
			return err
		}

		opts := []internal.Option{
			internal.WithConfig(cfg),
			internal.WithSource(source),
			internal.WithWatch(watch),
		}

		if err := internal.Run(ctx, opts...); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}

		return nil
	}
}

func main() {
	cmd := &cli.Command{
		Name:      "dokuwiki2wikijs",
		Usage:     "Convert a DokuWiki installation into a Wiki.js markdown tree",
		ArgsUsage: "<file or folder>",
		Action:    run(false),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (defaults apply when unset)",
				Sources: cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "watch",
				Usage:     "Convert the installation, then reconvert pages as they change",
				ArgsUsage: "<folder>",
				Action:    run(true),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
