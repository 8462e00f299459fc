package main

import (
	"github.com/go-drift/drift/pkg/core"
	"github.com/go-drift/settings/pkg/settings"
)

// sectionPageInfo describes the placeholder page for one section. The
// section screens themselves live with the configuration editor.
type sectionPageInfo struct {
	ID      settings.SectionID
	Summary string
}

// sectionPages lists a page for every catalog section.
var sectionPages = []sectionPageInfo{
	{settings.SectionApp, "Start at login, menu bar and dock behaviour of the desktop application."},
	{settings.SectionCore, "Working directory, log level and memory limit of the sing-box core."},
	{settings.SectionPacketTunnel, "Routes, DNS and included or excluded networks of the packet tunnel."},
	{settings.SectionOnDemandRules, "Rules that connect or disconnect the VPN when networks change."},
	{settings.SectionProfileOverride, "Options applied on top of the selected profile."},
	{settings.SectionSponsors, "People and organizations that fund sing-box development."},
}

func sectionSummary(id settings.SectionID) string {
	for _, page := range sectionPages {
		if page.ID == id {
			return page.Summary
		}
	}
	return ""
}

// newDestinations binds every section to its page factory. catalog is
// read when a page is built, so it may be assigned after this call.
func newDestinations(catalog **settings.Catalog) settings.Destinations {
	page := func(id settings.SectionID) func() core.Widget {
		return func() core.Widget {
			c := *catalog
			return sectionPage{ID: id, Title: c.TitleFor(id), Back: c.Localize("Back")}
		}
	}
	return settings.Destinations{
		App:             page(settings.SectionApp),
		Core:            page(settings.SectionCore),
		PacketTunnel:    page(settings.SectionPacketTunnel),
		OnDemandRules:   page(settings.SectionOnDemandRules),
		ProfileOverride: page(settings.SectionProfileOverride),
		Sponsors:        page(settings.SectionSponsors),
		ServiceLog: func() core.Widget {
			c := *catalog
			return serviceLogPage{Title: c.Localize(settings.TitleServiceLog), Back: c.Localize("Back")}
		},
	}
}
