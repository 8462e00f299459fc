package main

import (
	"log"
	"net/url"
	"strings"

	"github.com/go-drift/drift/pkg/core"
	"github.com/go-drift/drift/pkg/engine"
	"github.com/go-drift/drift/pkg/graphics"
	"github.com/go-drift/drift/pkg/navigation"
	"github.com/go-drift/drift/pkg/platform"
	"github.com/go-drift/drift/pkg/theme"
	"github.com/go-drift/settings/pkg/censorship"
	"github.com/go-drift/settings/pkg/config"
	"github.com/go-drift/settings/pkg/i18n"
	"github.com/go-drift/settings/pkg/review"
	"github.com/go-drift/settings/pkg/settings"
)

// DeepLinkScheme is the URL scheme the app registers for deep links.
const DeepLinkScheme = "sing-box"

// rootRoute shows the settings screen.
const rootRoute = "/"

// SettingsApp wires configuration, localization and platform services into
// the settings screen and hosts the navigator its sections push onto.
type SettingsApp struct {
	core.StatefulBase
	Config *config.Resolved
	Bundle *i18n.Bundle
}

func (a SettingsApp) CreateState() core.State {
	return &settingsAppState{}
}

type settingsAppState struct {
	core.StateBase
	cfg       *config.Resolved
	catalog   *settings.Catalog
	probe     *settings.CapabilityProbe
	review    review.Requester
	themeData *theme.AppThemeData
	deepLinks *navigation.DeepLinkController
}

func (s *settingsAppState) InitState() {
	w := s.Element().Widget().(SettingsApp)
	s.cfg = w.Config
	s.catalog = settings.NewCatalog(newDestinations(&s.catalog), w.Bundle.Printer(s.cfg.Locale))
	s.probe = settings.NewCapabilityProbe(censorship.Check(), settings.WithPreview(s.cfg.Preview))
	s.review = review.NewChannelRequester(nil)
	s.themeData = theme.NewAppThemeData(theme.TargetPlatformCupertino, theme.BrightnessDark)
	engine.SetBackgroundColor(graphics.Color(s.themeData.Material.ColorScheme.Background))

	s.deepLinks = navigation.NewDeepLinkController(s.deepLinkRoute, func(err error) {
		log.Printf("deep link error: %v", err)
	})
	s.OnDispose(s.deepLinks.Stop)
}

func (s *settingsAppState) Build(ctx core.BuildContext) core.Widget {
	return theme.AppTheme{
		Data: s.themeData,
		Child: navigation.Navigator{
			InitialRoute:    rootRoute,
			IsRoot:          true,
			OnGenerateRoute: s.generateRoute,
		},
	}
}

func (s *settingsAppState) generateRoute(rs navigation.RouteSettings) navigation.Route {
	if rs.Name == rootRoute {
		return navigation.NewPageRoute(s.buildSettingsPage, rs)
	}
	content, ok := s.contentFor(rs.Name)
	if !ok {
		log.Printf("settings: no route for %s", rs.Name)
		return nil
	}
	return navigation.NewAnimatedPageRoute(func(core.BuildContext) core.Widget {
		return content()
	}, rs)
}

// contentFor resolves a route name to the factory of its destination.
// Sections not visible on the configured platform and variant have no
// route.
func (s *settingsAppState) contentFor(route string) (func() core.Widget, bool) {
	if route == settings.ServiceLogRoute {
		return s.catalog.Destinations().ServiceLog, true
	}
	slug, ok := strings.CutPrefix(route, settings.RoutePrefix)
	if !ok {
		return nil, false
	}
	id, ok := settings.ParseSectionID(slug)
	if !ok {
		return nil, false
	}
	section := s.catalog.Section(id)
	if !section.Visible(s.cfg.Platform, s.cfg.Variant) || section.Content == nil {
		return nil, false
	}
	return section.Content, true
}

func (s *settingsAppState) buildSettingsPage(ctx core.BuildContext) core.Widget {
	return rootScaffold(ctx, s.catalog.Localize("Settings"), settings.Screen{
		Platform:         s.cfg.Platform,
		Variant:          s.cfg.Variant,
		Catalog:          s.catalog,
		Probe:            s.probe,
		Review:           s.review,
		DocumentationURL: s.cfg.DocumentationURL,
		Version:          s.cfg.Version,
		OnPhaseChange: func(p settings.Phase) {
			log.Printf("settings: capability probe %s", p)
		},
	})
}

func (s *settingsAppState) deepLinkRoute(link platform.DeepLink) (navigation.DeepLinkRoute, bool) {
	route, ok := routeForLink(link.URL)
	if !ok {
		log.Printf("deep link ignored: %s (source=%s)", link.URL, link.Source)
		return navigation.DeepLinkRoute{}, false
	}
	if route != rootRoute {
		if _, ok := s.contentFor(route); !ok {
			log.Printf("deep link ignored: %s not available on %s", route, s.cfg.Platform)
			return navigation.DeepLinkRoute{}, false
		}
	}
	log.Printf("deep link received: %s (source=%s)", link.URL, link.Source)
	return navigation.DeepLinkRoute{Name: route}, true
}

// routeForLink maps sing-box://settings[/<section>] to a route name.
func routeForLink(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme != DeepLinkScheme {
		return "", false
	}
	parts := strings.Split(strings.Trim(parsed.Host+parsed.Path, "/"), "/")
	if len(parts) == 0 || parts[0] != "settings" {
		return "", false
	}
	switch len(parts) {
	case 1:
		return rootRoute, true
	case 2:
		if parts[1] == strings.TrimPrefix(settings.ServiceLogRoute, settings.RoutePrefix) {
			return settings.ServiceLogRoute, true
		}
		id, ok := settings.ParseSectionID(parts[1])
		if !ok {
			return "", false
		}
		return settings.RouteFor(id), true
	}
	return "", false
}
