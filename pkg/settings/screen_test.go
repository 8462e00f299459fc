package settings

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/go-drift/drift/pkg/core"
	"github.com/go-drift/drift/pkg/graphics"
	"github.com/go-drift/drift/pkg/navigation"
	"github.com/go-drift/drift/pkg/platform"
	"github.com/go-drift/drift/pkg/widgets"

	dtesting "github.com/go-drift/drift/pkg/testing"
)

// manualRunner holds probe work until flush, standing in for a goroutine.
type manualRunner struct {
	queued []func()
}

func (r *manualRunner) run(fn func()) {
	r.queued = append(r.queued, fn)
}

func (r *manualRunner) flush() {
	queued := r.queued
	r.queued = nil
	for _, fn := range queued {
		fn()
	}
}

func inline(fn func()) { fn() }

type fakeLinks struct {
	urls []string
	err  error
}

func (f *fakeLinks) OpenURL(rawURL string) error {
	f.urls = append(f.urls, rawURL)
	return f.err
}

type fakeReview struct {
	requests int
}

func (f *fakeReview) RequestReview() {
	f.requests++
}

func newTester(t *testing.T) *dtesting.WidgetTester {
	t.Helper()
	tester := dtesting.NewWidgetTesterWithT(t)
	tester.SetSize(graphics.Size{Width: 480, Height: 2000})
	return tester
}

func expectTexts(t *testing.T, tester *dtesting.WidgetTester, texts ...string) {
	t.Helper()
	for _, text := range texts {
		if !tester.Find(dtesting.ByText(text)).Exists() {
			t.Errorf("expected %q to be shown", text)
		}
	}
}

func expectNoTexts(t *testing.T, tester *dtesting.WidgetTester, texts ...string) {
	t.Helper()
	for _, text := range texts {
		if tester.Find(dtesting.ByText(text)).Exists() {
			t.Errorf("expected %q to be hidden", text)
		}
	}
}

func TestScreen_DesktopWithSystemExtension(t *testing.T) {
	tester := newTester(t)
	runner := &manualRunner{}
	calls := factoryCalls{}
	var phases []Phase
	var routes []string

	tester.PumpWidget(Screen{
		Platform: PlatformDesktop,
		Variant:  Variant{UseSystemExtension: true},
		Catalog:  NewCatalog(countingDestinations(calls), nil),
		Probe:    NewCapabilityProbe(func() bool { return false }, WithRunner(runner.run)),
		Links:    &fakeLinks{},
		Review:   &fakeReview{},
		Version:  "v1.11.0",
		OnNavigate: func(_ core.BuildContext, route string, _ func() core.Widget) {
			routes = append(routes, route)
		},
		OnPhaseChange: func(p Phase) { phases = append(phases, p) },
	})

	expectTexts(t, tester,
		"App", "Core", "Packet Tunnel", "On Demand Rules", "Profile Override",
		"About", "Documentation", "Rate on the App Store", "Version", "v1.11.0", "Sponsors",
		"Debug", "Service Log", "Taiwan Flag Available", "Loading...",
	)
	if !slices.Equal(phases, []Phase{PhaseProbing}) {
		t.Fatalf("phases after mount = %v", phases)
	}

	runner.flush()
	expectTexts(t, tester, "Loading...")
	tester.Pump()

	expectTexts(t, tester, "true")
	expectNoTexts(t, tester, "Loading...")
	if !slices.Equal(phases, []Phase{PhaseProbing, PhaseResolved}) {
		t.Errorf("phases = %v", phases)
	}

	// Rebuilds never start another probe.
	tester.Pump()
	if len(runner.queued) != 0 {
		t.Errorf("expected a single probe per mount, %d queued", len(runner.queued))
	}
	if len(calls) != 0 {
		t.Errorf("content built before navigation: %v", calls)
	}
}

func TestScreen_DefaultRunnerDispatchesResult(t *testing.T) {
	tester := newTester(t)

	// The tester's queue is not safe for other goroutines, so the
	// background result is handed over on a channel.
	dispatched := make(chan func(), 1)
	platform.RegisterDispatch(func(fn func()) { dispatched <- fn })
	t.Cleanup(func() { platform.RegisterDispatch(tester.Dispatch) })

	var phases []Phase
	tester.PumpWidget(Screen{
		Platform:      PlatformPhone,
		Catalog:       NewCatalog(Destinations{}, nil),
		Probe:         NewCapabilityProbe(func() bool { return false }),
		OnPhaseChange: func(p Phase) { phases = append(phases, p) },
	})
	expectTexts(t, tester, "Loading...")

	select {
	case fn := <-dispatched:
		tester.Dispatch(fn)
	case <-time.After(5 * time.Second):
		t.Fatal("capability result was never dispatched")
	}
	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatalf("PumpAndSettle: %v", err)
	}

	expectTexts(t, tester, "true")
	expectNoTexts(t, tester, "Loading...")
	if !slices.Equal(phases, []Phase{PhaseProbing, PhaseResolved}) {
		t.Errorf("phases = %v", phases)
	}
}

func TestScreen_ProbeRestrictedShowsFalse(t *testing.T) {
	tester := newTester(t)
	tester.PumpWidget(Screen{
		Platform: PlatformPhone,
		Catalog:  NewCatalog(Destinations{}, nil),
		Probe:    NewCapabilityProbe(func() bool { return true }, WithRunner(inline)),
	})
	tester.Pump()

	expectTexts(t, tester, "false")
	expectNoTexts(t, tester, "Loading...")
}

func TestScreen_PreviewSkipsDeviceCheck(t *testing.T) {
	tester := newTester(t)
	tester.PumpWidget(Screen{
		Platform: PlatformPhone,
		Catalog:  NewCatalog(Destinations{}, nil),
		Probe: NewCapabilityProbe(func() bool {
			t.Error("device check called in preview mode")
			return true
		}, WithPreview(true), WithRunner(inline)),
	})
	tester.Pump()

	expectTexts(t, tester, "true")
}

func TestScreen_NilProbeResolvesFalse(t *testing.T) {
	tester := newTester(t)
	tester.PumpWidget(Screen{
		Platform: PlatformPhone,
		Catalog:  NewCatalog(Destinations{}, nil),
	})
	tester.Pump()

	expectTexts(t, tester, "false")
}

func TestScreen_TV(t *testing.T) {
	tester := newTester(t)
	tester.PumpWidget(Screen{
		Platform: PlatformTV,
		Variant:  Variant{UseSystemExtension: true},
		Catalog:  NewCatalog(Destinations{}, nil),
		Probe:    NewCapabilityProbe(func() bool { return false }, WithRunner(inline)),
	})
	tester.Pump()

	expectTexts(t, tester, "Core", "Packet Tunnel", "On Demand Rules", "Profile Override", "Debug", "Service Log", "true")
	expectNoTexts(t, tester, "App", "About", "Documentation", "Rate on the App Store", "Sponsors")
}

func TestScreen_SponsorsRequireSystemExtension(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		variant  Variant
		want     bool
	}{
		{"desktop with extension", PlatformDesktop, Variant{UseSystemExtension: true}, true},
		{"desktop without extension", PlatformDesktop, Variant{}, false},
		{"phone with extension", PlatformPhone, Variant{UseSystemExtension: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tester := newTester(t)
			tester.PumpWidget(Screen{
				Platform: tt.platform,
				Variant:  tt.variant,
				Catalog:  NewCatalog(Destinations{}, nil),
				Probe:    NewCapabilityProbe(nil, WithRunner(inline)),
			})
			expectTexts(t, tester, "About")
			if got := tester.Find(dtesting.ByText("Sponsors")).Exists(); got != tt.want {
				t.Errorf("sponsors shown = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScreen_NavigationIsLazy(t *testing.T) {
	tester := newTester(t)
	calls := factoryCalls{}
	var routes []string
	var contents []func() core.Widget

	tester.PumpWidget(Screen{
		Platform: PlatformDesktop,
		Variant:  Variant{UseSystemExtension: true},
		Catalog:  NewCatalog(countingDestinations(calls), nil),
		Probe:    NewCapabilityProbe(nil, WithRunner(inline)),
		OnNavigate: func(_ core.BuildContext, route string, content func() core.Widget) {
			routes = append(routes, route)
			contents = append(contents, content)
		},
	})

	for _, label := range []string{"Core", "Sponsors", "Service Log"} {
		if err := tester.Tap(dtesting.ByText(label)); err != nil {
			t.Fatalf("Tap(%q): %v", label, err)
		}
		tester.Pump()
	}

	want := []string{RouteFor(SectionCore), RouteFor(SectionSponsors), ServiceLogRoute}
	if !slices.Equal(routes, want) {
		t.Errorf("routes = %v, want %v", routes, want)
	}
	if len(calls) != 0 {
		t.Fatalf("content built by the screen: %v", calls)
	}

	contents[0]()
	if calls[SectionCore] != 1 {
		t.Errorf("core factory calls = %d", calls[SectionCore])
	}
}

func TestScreen_NavigatorBuildsContentOnce(t *testing.T) {
	tester := newTester(t)
	calls := factoryCalls{}
	screen := Screen{
		Platform: PlatformPhone,
		Catalog:  NewCatalog(countingDestinations(calls), nil),
		Probe:    NewCapabilityProbe(nil, WithRunner(inline)),
	}

	tester.PumpWidget(navigation.Navigator{
		InitialRoute: "/",
		OnGenerateRoute: func(settings navigation.RouteSettings) navigation.Route {
			return navigation.NewPageRoute(func(core.BuildContext) core.Widget {
				return screen
			}, settings)
		},
	})
	if calls[SectionCore] != 0 {
		t.Fatalf("core built before tap")
	}

	if err := tester.Tap(dtesting.ByText("Core")); err != nil {
		t.Fatalf("Tap: %v", err)
	}
	for i := 0; i < 5; i++ {
		tester.Pump()
	}

	expectTexts(t, tester, "core page")
	if calls[SectionCore] != 1 {
		t.Errorf("core factory calls = %d, want 1", calls[SectionCore])
	}
	if len(calls) != 1 {
		t.Errorf("unexpected factory calls %v", calls)
	}
}

func TestScreen_AboutActions(t *testing.T) {
	tester := newTester(t)
	links := &fakeLinks{}
	review := &fakeReview{}

	tester.PumpWidget(Screen{
		Platform:         PlatformPhone,
		Catalog:          NewCatalog(Destinations{}, nil),
		Probe:            NewCapabilityProbe(nil, WithRunner(inline)),
		Links:            links,
		Review:           review,
		DocumentationURL: "https://example.com/docs",
	})

	tester.Tap(dtesting.ByText("Documentation"))
	tester.Pump()
	tester.Tap(dtesting.ByText("Rate on the App Store"))
	tester.Pump()

	if !slices.Equal(links.urls, []string{"https://example.com/docs"}) {
		t.Errorf("opened urls = %v", links.urls)
	}
	if review.requests != 1 {
		t.Errorf("review requests = %d", review.requests)
	}
}

func TestScreen_DocumentationDefaultURLAndFailure(t *testing.T) {
	rec := recordErrors(t)
	tester := newTester(t)
	links := &fakeLinks{err: errors.New("no browser")}

	tester.PumpWidget(Screen{
		Platform: PlatformDesktop,
		Catalog:  NewCatalog(Destinations{}, nil),
		Probe:    NewCapabilityProbe(nil, WithRunner(inline)),
		Links:    links,
	})
	tester.Tap(dtesting.ByText("Documentation"))
	tester.Pump()

	if !slices.Equal(links.urls, []string{DefaultDocumentationURL}) {
		t.Errorf("opened urls = %v", links.urls)
	}
	if len(rec.errs) != 1 || rec.errs[0].Op != "settings.openDocumentation" {
		t.Errorf("expected the link failure to be reported, got %v", rec.errs)
	}
}

func TestScreen_LateResultAfterUnmount(t *testing.T) {
	tester := newTester(t)
	runner := &manualRunner{}
	var phases []Phase

	tester.PumpWidget(Screen{
		Platform:      PlatformDesktop,
		Catalog:       NewCatalog(Destinations{}, nil),
		Probe:         NewCapabilityProbe(func() bool { return false }, WithRunner(runner.run)),
		OnPhaseChange: func(p Phase) { phases = append(phases, p) },
	})
	tester.PumpWidget(widgets.Text{Content: "elsewhere"})

	runner.flush()
	tester.Pump()

	if !slices.Equal(phases, []Phase{PhaseProbing}) {
		t.Errorf("phases = %v, want only probing", phases)
	}
	expectTexts(t, tester, "elsewhere")
}

func TestScreen_DispatchedResultAfterUnmount(t *testing.T) {
	tester := newTester(t)
	runner := &manualRunner{}
	var phases []Phase

	tester.PumpWidget(Screen{
		Platform:      PlatformPhone,
		Catalog:       NewCatalog(Destinations{}, nil),
		Probe:         NewCapabilityProbe(func() bool { return false }, WithRunner(runner.run)),
		OnPhaseChange: func(p Phase) { phases = append(phases, p) },
	})
	// The result reaches the UI queue, then the screen goes away before
	// the next frame drains it.
	runner.flush()
	tester.PumpWidget(widgets.Text{Content: "elsewhere"})
	tester.Pump()

	if !slices.Equal(phases, []Phase{PhaseProbing}) {
		t.Errorf("phases = %v, want only probing", phases)
	}
}

func TestScreen_NilCatalog(t *testing.T) {
	tester := newTester(t)
	tester.PumpWidget(Screen{
		Platform: PlatformDesktop,
		Probe:    NewCapabilityProbe(func() bool { return false }, WithRunner(inline)),
	})
	tester.Pump()

	expectTexts(t, tester, "Debug", "Service Log", "true")
	expectNoTexts(t, tester, "Core", "About")
}
