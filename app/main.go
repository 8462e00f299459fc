// Package main is the sing-box settings screen as a Drift application.
//
// Configuration comes from $XDG_CONFIG_HOME/sing-box/settings.yaml and
// SING_BOX_SETTINGS_* environment variables. Deep links of the form
// sing-box://settings/<section> open a section directly.
package main

import (
	"log"

	"github.com/go-drift/drift/pkg/core"
	"github.com/go-drift/drift/pkg/drift"
	"github.com/go-drift/settings/pkg/config"
	"github.com/go-drift/settings/pkg/i18n"
)

func main() {
	drift.NewApp(App()).Run()
}

// App returns the root widget for the settings application.
func App() core.Widget {
	cfg, err := config.Resolve("")
	if err != nil {
		log.Printf("settings config: %v, using defaults", err)
		cfg = config.Default()
	}
	return SettingsApp{
		Config: cfg,
		Bundle: i18n.MustLoadEmbedded(),
	}
}
