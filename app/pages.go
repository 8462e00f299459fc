package main

import (
	"sync"

	"github.com/go-drift/drift/pkg/core"
	"github.com/go-drift/drift/pkg/drift"
	drifterrors "github.com/go-drift/drift/pkg/errors"
	"github.com/go-drift/drift/pkg/graphics"
	"github.com/go-drift/drift/pkg/layout"
	"github.com/go-drift/drift/pkg/navigation"
	"github.com/go-drift/drift/pkg/platform"
	"github.com/go-drift/drift/pkg/theme"
	"github.com/go-drift/drift/pkg/widgets"
	"github.com/go-drift/settings/pkg/settings"
)

// ServiceLogChannel streams log lines from the running service.
const ServiceLogChannel = "sing-box/service-log"

// maxLogLines bounds the service log kept in memory.
const maxLogLines = 500

var (
	serviceLogOnce    sync.Once
	serviceLogChannel *platform.EventChannel
)

func serviceLogEvents() *platform.EventChannel {
	serviceLogOnce.Do(func() {
		serviceLogChannel = platform.NewEventChannel(ServiceLogChannel)
	})
	return serviceLogChannel
}

// sectionPage is the destination page of a catalog section.
type sectionPage struct {
	core.StatelessBase
	ID    settings.SectionID
	Title string
	Back  string
}

func (p sectionPage) Build(ctx core.BuildContext) core.Widget {
	colors := theme.ColorsOf(ctx)
	return pageScaffold(ctx, p.Title, p.Back, widgets.Padding{
		Padding: layout.EdgeInsetsAll(20),
		Child: widgets.Text{
			Content: sectionSummary(p.ID),
			Wrap:    graphics.TextWrapWrap,
			Style:   graphics.TextStyle{Color: colors.OnSurfaceVariant, FontSize: 15},
		},
	})
}

// serviceLogPage shows the lines received on ServiceLogChannel while it is
// mounted.
type serviceLogPage struct {
	core.StatefulBase
	Title string
	Back  string
}

func (p serviceLogPage) CreateState() core.State {
	return &serviceLogState{}
}

type serviceLogState struct {
	core.StateBase
	lines []string
}

func (s *serviceLogState) InitState() {
	sub := serviceLogEvents().Listen(platform.EventHandler{
		OnEvent: func(data any) {
			line, ok := data.(string)
			if !ok {
				return
			}
			drift.Dispatch(func() {
				s.SetState(func() { s.appendLine(line) })
			})
		},
		OnError: func(err error) {
			drifterrors.Report(&drifterrors.DriftError{
				Op:      "app.serviceLog",
				Kind:    drifterrors.KindPlatform,
				Channel: ServiceLogChannel,
				Err:     err,
			})
		},
	})
	s.OnDispose(sub.Cancel)
}

func (s *serviceLogState) appendLine(line string) {
	s.lines = append(s.lines, line)
	if over := len(s.lines) - maxLogLines; over > 0 {
		s.lines = s.lines[over:]
	}
}

func (s *serviceLogState) Build(ctx core.BuildContext) core.Widget {
	colors := theme.ColorsOf(ctx)
	style := graphics.TextStyle{Color: colors.OnSurface, FontSize: 12}

	items := make([]core.Widget, 0, len(s.lines))
	for _, line := range s.lines {
		items = append(items, widgets.Text{Content: line, Wrap: graphics.TextWrapWrap, Style: style})
	}
	if len(items) == 0 {
		items = append(items, widgets.Text{
			Content: "No log entries.",
			Style:   graphics.TextStyle{Color: colors.OnSurfaceVariant, FontSize: 14},
		})
	}

	w := s.Element().Widget().(serviceLogPage)
	return pageScaffold(ctx, w.Title, w.Back, widgets.ScrollView{
		ScrollDirection: widgets.AxisVertical,
		Physics:         widgets.BouncingScrollPhysics{},
		Padding:         layout.EdgeInsetsAll(16),
		Child: widgets.Column{
			MainAxisAlignment:  widgets.MainAxisAlignmentStart,
			CrossAxisAlignment: widgets.CrossAxisAlignmentStart,
			MainAxisSize:       widgets.MainAxisSizeMin,
			Children:           items,
		},
	})
}

// rootScaffold lays out the first page: a title header above the content.
func rootScaffold(ctx core.BuildContext, title string, content core.Widget) core.Widget {
	return scaffold(ctx, title, nil, content)
}

// pageScaffold creates a pushed page with a back button and title.
func pageScaffold(ctx core.BuildContext, title, backLabel string, content core.Widget) core.Widget {
	colors := theme.ColorsOf(ctx)
	back := theme.ButtonOf(ctx, backLabel, func() {
		if nav := navigation.NavigatorOf(ctx); nav != nil {
			nav.Pop(nil)
		}
	}).WithColor(colors.SurfaceVariant, colors.OnSurfaceVariant)
	return scaffold(ctx, title, back, content)
}

func scaffold(ctx core.BuildContext, title string, leading core.Widget, content core.Widget) core.Widget {
	_, colors, textTheme := theme.UseTheme(ctx)

	// Header sits below the status bar.
	headerPadding := widgets.SafeAreaPadding(ctx).OnlyTop().Add(16)

	header := []core.Widget{}
	if leading != nil {
		header = append(header, leading, widgets.HSpace(16))
	}
	header = append(header, widgets.Text{Content: title, Style: textTheme.HeadlineMedium})

	return widgets.Expanded{
		Child: widgets.Container{
			Color: colors.Background,
			Child: widgets.Column{
				MainAxisAlignment:  widgets.MainAxisAlignmentStart,
				CrossAxisAlignment: widgets.CrossAxisAlignmentStretch,
				MainAxisSize:       widgets.MainAxisSizeMax,
				Children: []core.Widget{
					widgets.Container{
						Color: colors.Surface,
						Child: widgets.Padding{
							Padding: headerPadding,
							Child: widgets.Row{
								MainAxisAlignment:  widgets.MainAxisAlignmentStart,
								CrossAxisAlignment: widgets.CrossAxisAlignmentCenter,
								MainAxisSize:       widgets.MainAxisSizeMax,
								Children:           header,
							},
						},
					},
					widgets.Expanded{Child: content},
				},
			},
		},
	}
}
