package main

import (
	"fmt"
	"reflect"

	"github.com/go-drift/settings/pkg/settings"
	"github.com/leodido/structcli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// SectionsOptions defines flags for the sections subcommand.
type SectionsOptions struct {
	Config   string            `flag:"config" flagshort:"c" flagdescr:"Path to settings.yaml (default $XDG_CONFIG_HOME/sing-box/settings.yaml)"`
	Platform settings.Platform `flag:"platform" flagshort:"p" flagdescr:"Platform, default from configuration" flagcustom:"true"`
	Locale   string            `flag:"locale" flagshort:"l" flagdescr:"Locale for titles (default from configuration)"`
	JSON     bool              `flag:"json" flagshort:"j" flagdescr:"Output in JSON format"`
}

func (o *SectionsOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func (o *SectionsOptions) DefinePlatform(name, short, descr string, structField reflect.StructField, fieldValue reflect.Value) (pflag.Value, string) {
	return definePlatform(descr, fieldValue)
}

func (o *SectionsOptions) DecodePlatform(input any) (any, error) {
	return decodePlatform(input)
}

type sectionView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Icon      string `json:"icon"`
	Placement string `json:"placement"`
	Route     string `json:"route"`
}

type screenView struct {
	Platform string        `json:"platform"`
	Sections []sectionView `json:"sections"`
	About    bool          `json:"about"`
	Debug    bool          `json:"debug"`
}

func placementName(p settings.Placement) string {
	if p == settings.PlacementAbout {
		return "about"
	}
	return "list"
}

func sectionsCmd() *cobra.Command {
	opts := &SectionsOptions{}

	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List the settings sections available on a platform",
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

			view := screenView{
				Platform: cfg.Platform.String(),
				About:    catalog.HasBlock(settings.BlockAbout, cfg.Platform),
				Debug:    catalog.HasBlock(settings.BlockDebug, cfg.Platform),
			}
			for _, s := range catalog.VisibleSections(cfg.Platform, cfg.Variant) {
				view.Sections = append(view.Sections, sectionView{
					ID:        s.ID.String(),
					Title:     s.Title,
					Icon:      s.Icon,
					Placement: placementName(s.Placement),
					Route:     settings.RouteFor(s.ID),
				})
			}

			out := c.OutOrStdout()
			if opts.JSON {
				return printJSON(out, view)
			}

			fprintHeader(out, fmt.Sprintf("Sections on %s", view.Platform))
			for _, s := range view.Sections {
				fmt.Fprintf(out, "  %s %-20s %s\n", settings.IconGlyph(s.Icon), s.Title, dimColor.Sprintf("(%s, %s)", s.ID, s.Placement))
			}
			fprintHeader(out, "Blocks")
			fprintRow(out, catalog.Localize(settings.BlockAbout.String()), boolColor(view.About).Sprint(view.About))
			fprintRow(out, catalog.Localize(settings.BlockDebug.String()), boolColor(view.Debug).Sprint(view.Debug))
			return nil
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}
