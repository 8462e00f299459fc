package main

import (
	"github.com/cockroachdb/errors"
	"github.com/go-drift/settings/pkg/config"
	"github.com/leodido/structcli"
	"github.com/spf13/cobra"
)

// ConfigOptions defines flags for the config subcommand.
type ConfigOptions struct {
	Config string `flag:"config" flagshort:"c" flagdescr:"Path to settings.yaml (default $XDG_CONFIG_HOME/sing-box/settings.yaml)"`
	JSON   bool   `flag:"json" flagshort:"j" flagdescr:"Output in JSON format"`
}

func (o *ConfigOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func configCmd() *cobra.Command {
	opts := &ConfigOptions{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Display the resolved settings configuration",
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := resolveConfig(opts.Config, nil, "")
			if err != nil {
				return err
			}

			out := c.OutOrStdout()
			if opts.JSON {
				return printJSON(out, map[string]any{
					"path":                 cfg.Path,
					"platform":             cfg.Platform.String(),
					"locale":               cfg.Locale.String(),
					"preview":              cfg.Preview,
					"documentation_url":    cfg.DocumentationURL,
					"version":              cfg.Version,
					"use_system_extension": cfg.Variant.UseSystemExtension,
				})
			}

			source := cfg.Path
			if source == "" {
				path := opts.Config
				if path == "" {
					path = config.DefaultPath()
				}
				source = "defaults (" + path + " not found)"
			}
			dimColor.Fprintf(out, "# %s\n", source)
			data, err := cfg.Marshal()
			if err != nil {
				return errors.Wrap(err, "encoding configuration")
			}
			_, err = out.Write(data)
			return err
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}
