package settings

import (
	"strconv"

	"github.com/go-drift/drift/pkg/core"
	drifterrors "github.com/go-drift/drift/pkg/errors"
	"github.com/go-drift/drift/pkg/graphics"
	"github.com/go-drift/drift/pkg/layout"
	"github.com/go-drift/drift/pkg/platform"
	"github.com/go-drift/drift/pkg/theme"
	"github.com/go-drift/drift/pkg/widgets"
)

func (s *screenState) aboutBlock(ctx core.BuildContext, w Screen) []core.Widget {
	catalog := w.Catalog
	items := []core.Widget{
		blockHeader(ctx, catalog.Localize(BlockAbout.String())),
		linkRow(ctx, IconDocumentation, catalog.Localize(TitleDocumentation), func() {
			openDocumentation(w)
		}),
		navigationRow(ctx, IconRate, catalog.Localize(TitleRate), func() {
			if w.Review != nil {
				w.Review.RequestReview()
			}
		}),
	}
	if w.Version != "" {
		items = append(items, valueRow(ctx, IconVersion, catalog.Localize(TitleVersion), w.Version))
	}
	for _, section := range s.about {
		items = append(items, s.sectionRow(ctx, w, section))
	}
	return items
}

func (s *screenState) debugBlock(ctx core.BuildContext, w Screen) []core.Widget {
	localize := func(key string) string { return key }
	var serviceLog func() core.Widget
	if w.Catalog != nil {
		localize = w.Catalog.Localize
		serviceLog = w.Catalog.Destinations().ServiceLog
	}

	value := localize(TitleLoading)
	if state := s.machine.state; !state.Loading {
		value = strconv.FormatBool(state.CapabilityAvailable)
	}

	return []core.Widget{
		blockHeader(ctx, localize(BlockDebug.String())),
		navigationRow(ctx, IconServiceLog, localize(TitleServiceLog), func() {
			s.navigate(ctx, w, ServiceLogRoute, serviceLog)
		}),
		onAppear{
			OnAppear: s.startProbe,
			Child:    valueRow(ctx, IconCapability, localize(TitleCapability), value),
		},
	}
}

func openDocumentation(w Screen) {
	url := w.DocumentationURL
	if url == "" {
		url = DefaultDocumentationURL
	}
	var links LinkOpener = platform.URLLauncher
	if w.Links != nil {
		links = w.Links
	}
	if err := links.OpenURL(url); err != nil {
		drifterrors.Report(&drifterrors.DriftError{
			Op:   "settings.openDocumentation",
			Kind: drifterrors.KindPlatform,
			Err:  err,
		})
	}
}

func blockHeader(ctx core.BuildContext, title string) core.Widget {
	colors := theme.ColorsOf(ctx)
	return widgets.Padding{
		Padding: layout.EdgeInsetsOnly(4, 24, 4, 8),
		Child: widgets.Text{
			Content: title,
			Style: graphics.TextStyle{
				Color:      colors.OnSurfaceVariant,
				FontSize:   13,
				FontWeight: graphics.FontWeightSemibold,
			},
		},
	}
}

// navigationRow is a tappable icon + title row.
func navigationRow(ctx core.BuildContext, icon, title string, onTap func()) core.Widget {
	colors := theme.ColorsOf(ctx)
	return widgets.GestureDetector{
		OnTap: onTap,
		Child: rowFrame(ctx, icon, title, colors.OnSurface, widgets.Text{
			Content: "›",
			Style:   graphics.TextStyle{Color: colors.OnSurfaceVariant, FontSize: 18},
		}),
	}
}

// linkRow is a tappable row drawn in the accent color, for external links.
func linkRow(ctx core.BuildContext, icon, title string, onTap func()) core.Widget {
	colors := theme.ColorsOf(ctx)
	return widgets.GestureDetector{
		OnTap: onTap,
		Child: rowFrame(ctx, icon, title, colors.Primary, nil),
	}
}

// valueRow shows a title with a trailing read-only value.
func valueRow(ctx core.BuildContext, icon, title, value string) core.Widget {
	colors := theme.ColorsOf(ctx)
	return rowFrame(ctx, icon, title, colors.OnSurface, widgets.Text{
		Content: value,
		Style:   graphics.TextStyle{Color: colors.OnSurfaceVariant, FontSize: 15},
	})
}

func rowFrame(ctx core.BuildContext, icon, title string, titleColor graphics.Color, trailing core.Widget) core.Widget {
	colors := theme.ColorsOf(ctx)
	children := []core.Widget{
		widgets.Icon{Glyph: IconGlyph(icon), Size: 18, Color: colors.Primary},
		widgets.HSpace(12),
		widgets.Text{Content: title, Style: graphics.TextStyle{Color: titleColor, FontSize: 16}},
	}
	if trailing != nil {
		children = append(children, widgets.Spacer(), trailing)
	}
	return widgets.Padding{
		Padding: layout.EdgeInsetsOnly(0, 0, 0, 8),
		Child: widgets.Container{
			Color:        colors.SurfaceContainerHigh,
			BorderRadius: 8,
			Padding:      layout.EdgeInsetsSymmetric(16, 12),
			Child: widgets.Row{
				MainAxisAlignment:  widgets.MainAxisAlignmentStart,
				CrossAxisAlignment: widgets.CrossAxisAlignmentCenter,
				MainAxisSize:       widgets.MainAxisSizeMax,
				Children:           children,
			},
		},
	}
}
