package main

import (
	"strings"

	"github.com/go-drift/settings/pkg/censorship"
	"github.com/go-drift/settings/pkg/settings"
	"github.com/leodido/structcli"
	"github.com/spf13/cobra"
)

// ProbeOptions defines flags for the probe subcommand.
type ProbeOptions struct {
	Locale   string `flag:"locale" flagshort:"l" flagdescr:"Locale to evaluate instead of LC_ALL, LC_MESSAGES and LANG"`
	Timezone string `flag:"timezone" flagshort:"z" flagdescr:"IANA time zone to evaluate instead of TZ and the system zone"`
	Preview  bool   `flag:"preview" flagdescr:"Resolve as the preview build does, without checking the device"`
	JSON     bool   `flag:"json" flagshort:"j" flagdescr:"Output in JSON format"`
}

func (o *ProbeOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func (o *ProbeOptions) censorshipOptions() []censorship.Option {
	var opts []censorship.Option
	if o.Locale != "" {
		opts = append(opts, censorship.WithLocale(o.Locale))
	}
	if o.Timezone != "" {
		opts = append(opts, censorship.WithTimezone(o.Timezone))
	}
	return opts
}

type probeView struct {
	Available  bool     `json:"available"`
	Preview    bool     `json:"preview"`
	Restricted bool     `json:"restricted"`
	Locale     string   `json:"locale,omitempty"`
	Region     string   `json:"region,omitempty"`
	TimeZone   string   `json:"timezone,omitempty"`
	Reasons    []string `json:"reasons,omitempty"`
}

func runProbe(opts *ProbeOptions) probeView {
	copts := opts.censorshipOptions()
	probe := settings.NewCapabilityProbe(censorship.Check(copts...), settings.WithPreview(opts.Preview))

	view := probeView{
		Available: probe.Check(),
		Preview:   probe.Preview(),
	}
	if !opts.Preview {
		res := censorship.Detect(copts...)
		view.Restricted = res.Restricted
		view.Locale = res.Locale
		view.Region = res.Region
		view.TimeZone = res.TimeZone
		for _, r := range res.Reasons {
			view.Reasons = append(view.Reasons, string(r))
		}
	}
	return view
}

func probeCmd() *cobra.Command {
	opts := &ProbeOptions{}

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Run the device capability probe shown in the Debug block",
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			view := runProbe(opts)

			out := c.OutOrStdout()
			if opts.JSON {
				return printJSON(out, view)
			}

			fprintHeader(out, settings.TitleCapability)
			fprintRow(out, "available", boolColor(view.Available).Sprint(view.Available))
			if view.Preview {
				fprintRow(out, "mode", dimColor.Sprint("preview"))
				return nil
			}
			fprintRow(out, "locale", orNone(view.Locale))
			fprintRow(out, "region", orNone(view.Region))
			fprintRow(out, "timezone", orNone(view.TimeZone))
			if len(view.Reasons) > 0 {
				fprintRow(out, "restricted by", strings.Join(view.Reasons, ", "))
			}
			return nil
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

func orNone(s string) string {
	if s == "" {
		return dimColor.Sprint("(none)")
	}
	return s
}
