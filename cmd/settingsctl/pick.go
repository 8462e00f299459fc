package main

import (
	"fmt"
	"io"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/go-drift/settings/pkg/settings"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/leodido/structcli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// PickOptions defines flags for the pick subcommand.
type PickOptions struct {
	Config   string            `flag:"config" flagshort:"c" flagdescr:"Path to settings.yaml (default $XDG_CONFIG_HOME/sing-box/settings.yaml)"`
	Platform settings.Platform `flag:"platform" flagshort:"p" flagdescr:"Platform, default from configuration" flagcustom:"true"`
	Locale   string            `flag:"locale" flagshort:"l" flagdescr:"Locale for titles (default from configuration)"`
}

func (o *PickOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func (o *PickOptions) DefinePlatform(name, short, descr string, structField reflect.StructField, fieldValue reflect.Value) (pflag.Value, string) {
	return definePlatform(descr, fieldValue)
}

func (o *PickOptions) DecodePlatform(input any) (any, error) {
	return decodePlatform(input)
}

// DeepLink returns the URL that opens id in the settings app.
func DeepLink(id settings.SectionID) string {
	return "sing-box://settings/" + id.String()
}

// finder selects one of n items. fuzzyfinder.Find in production.
type finder func(sections []settings.Section) (int, error)

func fuzzyFind(sections []settings.Section) (int, error) {
	return fuzzyfinder.Find(
		sections,
		func(i int) string {
			return sections[i].Title
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			s := sections[i]
			return fmt.Sprintf("Section: %s\nIcon: %s\nRoute: %s\nDeep link: %s",
				s.ID,
				s.Icon,
				settings.RouteFor(s.ID),
				DeepLink(s.ID),
			)
		}),
	)
}

func runPick(w io.Writer, sections []settings.Section, find finder) error {
	if len(sections) == 0 {
		fmt.Fprintln(w, "No sections available.")
		return nil
	}

	idx, err := find(sections)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive pick failed")
	}

	fmt.Fprintln(w, DeepLink(sections[idx].ID))
	return nil
}

func pickCmd(find finder) *cobra.Command {
	opts := &PickOptions{}

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a section interactively and print its deep link",
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := resolveConfig(opts.Config, platformOverride(c, opts.Platform), opts.Locale)
			if err != nil {
				return err
			}
			catalog, err := newCatalog(cfg.Locale)
			if err != nil {
				return err
			}
			return runPick(c.OutOrStdout(), catalog.VisibleSections(cfg.Platform, cfg.Variant), find)
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}
