package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/klauern/agentsync/internal/config"
	"github.com/klauern/agentsync/internal/util"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect or create the user configuration",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration as YAML",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					data, err := yaml.Marshal(configFrom(ctx))
					if err != nil {
						return fmt.Errorf("failed to render config: %w", err)
					}
					_, err = cmd.Root().Writer.Write(data)
					return err
				},
			},
			{
				Name:  "path",
				Usage: "Print the config file location",
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprintln(cmd.Root().Writer, configPath(cmd))
					return err
				},
			},
			{
				Name:  "init",
				Usage: "Write a config file with the default settings",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing config file",
					},
				},
				Action: runConfigInit,
			},
		},
	}
}

func runConfigInit(_ context.Context, cmd *cli.Command) error {
	path := configPath(cmd)
	custom := cmd.Root().String("config") != ""

	exists := config.Exists()
	if custom {
		exists = util.Exists(path)
	}
	if exists && !cmd.Bool("force") {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	cfg := config.Default()
	var err error
	if custom {
		err = cfg.SaveToPath(path)
	} else {
		err = cfg.Save()
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	_, err = fmt.Fprintf(cmd.Root().Writer, "wrote %s\n", path)
	return err
}

// configPath returns the --config value or the default location.
func configPath(cmd *cli.Command) string {
	if path := cmd.Root().String("config"); path != "" {
		return path
	}
	return config.FilePath()
}
