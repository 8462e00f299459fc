package settings

import (
	"log"

	"github.com/go-drift/drift/pkg/core"
	"github.com/go-drift/drift/pkg/layout"
	"github.com/go-drift/drift/pkg/navigation"
	"github.com/go-drift/drift/pkg/platform"
	"github.com/go-drift/drift/pkg/theme"
	"github.com/go-drift/drift/pkg/widgets"
)

// DefaultDocumentationURL is opened by the About block's documentation row.
const DefaultDocumentationURL = "https://sing-box.sagernet.org/"

// RoutePrefix is prepended to section slugs to form route names.
const RoutePrefix = "/settings/"

// ServiceLogRoute is the route name of the service log page.
const ServiceLogRoute = RoutePrefix + "service-log"

// RouteFor returns the route name for a section.
func RouteFor(id SectionID) string {
	return RoutePrefix + id.String()
}

// LinkOpener opens external URLs. platform.URLLauncher satisfies it.
type LinkOpener interface {
	OpenURL(rawURL string) error
}

// ReviewRequester asks the platform to show its store review prompt.
// The screen never observes the outcome.
type ReviewRequester interface {
	RequestReview()
}

// Variant carries the distribution variant flags.
type Variant struct {
	// UseSystemExtension shows the Sponsors row in the About block on desktop.
	UseSystemExtension bool
}

// Screen is the settings screen.
//
// Every field is read when the screen is built; none of them are consulted
// from process-wide state. Sections are filtered by Platform and Variant
// once per mount and rebuilt only if one of them or Catalog changes.
//
//	settings.Screen{
//	    Platform: settings.PlatformDesktop,
//	    Variant:  settings.Variant{UseSystemExtension: true},
//	    Catalog:  settings.NewCatalog(destinations, printer),
//	    Probe:    settings.NewCapabilityProbe(censorship.Check()),
//	}
type Screen struct {
	core.StatefulBase

	Platform Platform
	Variant  Variant
	Catalog  *Catalog
	// Probe resolves the capability row. A nil probe resolves to false.
	Probe *CapabilityProbe
	// Links opens the documentation URL. Defaults to platform.URLLauncher.
	Links LinkOpener
	// Review is triggered by the rate row. Nil disables the row's action.
	Review ReviewRequester
	// DocumentationURL defaults to DefaultDocumentationURL.
	DocumentationURL string
	// Version is shown in the About block when non-empty.
	Version string
	// OnNavigate replaces the default navigator push. content must only be
	// called when the destination is actually shown.
	OnNavigate func(ctx core.BuildContext, route string, content func() core.Widget)
	// OnPhaseChange observes capability probe transitions.
	OnPhaseChange func(Phase)
}

// CreateState creates the mount-scoped state.
func (s Screen) CreateState() core.State {
	return &screenState{}
}

type screenState struct {
	core.StateBase
	machine  *capabilityMachine
	sections []Section
	about    []Section
}

func (s *screenState) InitState() {
	w := s.screen()
	s.machine = newCapabilityMachine(w.OnPhaseChange)
	s.OnDispose(s.machine.cancel)
	s.resolveSections(w)
}

func (s *screenState) DidUpdateWidget(oldWidget core.StatefulWidget) {
	old, ok := oldWidget.(Screen)
	if !ok {
		return
	}
	w := s.screen()
	if old.Platform != w.Platform || old.Variant != w.Variant || old.Catalog != w.Catalog {
		s.resolveSections(w)
	}
}

func (s *screenState) screen() Screen {
	return s.Element().Widget().(Screen)
}

func (s *screenState) resolveSections(w Screen) {
	s.sections = s.sections[:0]
	s.about = s.about[:0]
	if w.Catalog == nil {
		return
	}
	for _, section := range w.Catalog.VisibleSections(w.Platform, w.Variant) {
		switch section.Placement {
		case PlacementList:
			s.sections = append(s.sections, section)
		case PlacementAbout:
			s.about = append(s.about, section)
		}
	}
}

// State returns a snapshot of the capability state.
func (s *screenState) State() ScreenState {
	return s.machine.state
}

func (s *screenState) Build(ctx core.BuildContext) core.Widget {
	w := s.screen()
	colors := theme.ColorsOf(ctx)

	items := make([]core.Widget, 0, len(s.sections)+12)
	for _, section := range s.sections {
		items = append(items, s.sectionRow(ctx, w, section))
	}
	if w.Catalog != nil && w.Catalog.HasBlock(BlockAbout, w.Platform) {
		items = append(items, s.aboutBlock(ctx, w)...)
	}
	items = append(items, s.debugBlock(ctx, w)...)

	return widgets.Container{
		Color: colors.Background,
		Child: widgets.ScrollView{
			ScrollDirection: widgets.AxisVertical,
			Physics:         widgets.BouncingScrollPhysics{},
			Padding:         layout.EdgeInsetsAll(16),
			Child: widgets.Column{
				MainAxisAlignment:  widgets.MainAxisAlignmentStart,
				CrossAxisAlignment: widgets.CrossAxisAlignmentStretch,
				MainAxisSize:       widgets.MainAxisSizeMin,
				Children:           items,
			},
		},
	}
}

func (s *screenState) sectionRow(ctx core.BuildContext, w Screen, section Section) core.Widget {
	return navigationRow(ctx, section.Icon, section.Title, func() {
		s.navigate(ctx, w, RouteFor(section.ID), section.Content)
	})
}

func (s *screenState) navigate(ctx core.BuildContext, w Screen, route string, content func() core.Widget) {
	if content == nil {
		log.Printf("settings: no destination for %s", route)
		return
	}
	if w.OnNavigate != nil {
		w.OnNavigate(ctx, route, content)
		return
	}
	nav := navigation.NavigatorOf(ctx)
	if nav == nil {
		return
	}
	nav.Push(navigation.NewAnimatedPageRoute(lazyPage(content), navigation.RouteSettings{Name: route}))
}

// lazyPage builds the destination at most once, on first build of the route.
func lazyPage(content func() core.Widget) func(core.BuildContext) core.Widget {
	var page core.Widget
	return func(core.BuildContext) core.Widget {
		if page == nil {
			page = content()
		}
		return page
	}
}

// startProbe runs when the capability row first appears.
func (s *screenState) startProbe() {
	token, ok := s.machine.begin()
	if !ok {
		return
	}
	probe := s.screen().Probe
	if probe == nil {
		// A nil check resolves false synchronously.
		probe = NewCapabilityProbe(nil, WithRunner(func(fn func()) { fn() }))
	}
	probe.CheckAsync(func(available bool) {
		if !token.live() {
			return
		}
		if !platform.Dispatch(func() { s.applyProbeResult(token, available) }) {
			log.Printf("settings: no UI dispatcher, capability result dropped")
		}
	})
}

func (s *screenState) applyProbeResult(token *mountToken, available bool) {
	if s.IsDisposed() || !token.live() {
		return
	}
	s.SetState(func() {
		s.machine.resolve(token, available)
	})
}

// onAppear calls OnAppear once when it is first mounted.
type onAppear struct {
	core.StatefulBase
	OnAppear func()
	Child    core.Widget
}

func (o onAppear) CreateState() core.State {
	return &onAppearState{}
}

type onAppearState struct {
	core.StateBase
}

func (s *onAppearState) InitState() {
	if w := s.Element().Widget().(onAppear); w.OnAppear != nil {
		w.OnAppear()
	}
}

func (s *onAppearState) Build(ctx core.BuildContext) core.Widget {
	return s.Element().Widget().(onAppear).Child
}
