// Command settingsctl inspects the settings screen catalog, runs the
// capability probe and shows the resolved configuration.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/go-drift/settings/pkg/config"
	"github.com/go-drift/settings/pkg/i18n"
	"github.com/go-drift/settings/pkg/settings"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "settingsctl",
		Short: "Inspect the sing-box settings screen",
		Long: `settingsctl shows which settings sections a platform gets, runs the
device capability probe behind the Debug block and prints the resolved
settings.yaml configuration.`,
		SilenceUsage: true,
	}

	root.AddCommand(sectionsCmd())
	root.AddCommand(probeCmd())
	root.AddCommand(pickCmd(fuzzyFind))
	root.AddCommand(configCmd())
	return root
}

// resolveConfig loads the configuration, applying flag overrides on top.
func resolveConfig(path string, platform *settings.Platform, locale string) (*config.Resolved, error) {
	cfg, err := config.Resolve(path)
	if err != nil {
		return nil, errors.Wrap(err, "resolving configuration")
	}
	if platform != nil {
		cfg.Platform = *platform
	}
	if locale != "" {
		tag, err := i18n.ParseLocale(locale)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing locale %q", locale)
		}
		cfg.Locale = tag
	}
	return cfg, nil
}

func newCatalog(tag language.Tag) (*settings.Catalog, error) {
	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		return nil, errors.Wrap(err, "loading message catalogs")
	}
	return settings.NewCatalog(settings.Destinations{}, bundle.Printer(tag)), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	dimColor    = color.New(color.FgHiBlack)
	okColor     = color.New(color.FgGreen)
	failColor   = color.New(color.FgRed, color.Bold)
)

func boolColor(v bool) *color.Color {
	if v {
		return okColor
	}
	return failColor
}

func fprintHeader(w io.Writer, title string) {
	headerColor.Fprintln(w, title)
}

func fprintRow(w io.Writer, key, value string) {
	fmt.Fprintf(w, "  %-24s %s\n", key, value)
}
