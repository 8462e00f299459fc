package settings

import (
	"runtime"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-drift/drift/pkg/core"
	"golang.org/x/text/message"
)

// Platform identifies the class of device the screen is presented on.
// Availability of sections and blocks is decided per platform.
type Platform int

const (
	// PlatformPhone covers handheld touch devices.
	PlatformPhone Platform = iota
	// PlatformDesktop covers desktop systems. It shows the extra App section.
	PlatformDesktop
	// PlatformTV covers TV-like devices. The About block is hidden there.
	PlatformTV
)

// Platforms lists every platform in declaration order.
func Platforms() []Platform {
	return []Platform{PlatformPhone, PlatformDesktop, PlatformTV}
}

func (p Platform) String() string {
	switch p {
	case PlatformPhone:
		return "phone"
	case PlatformDesktop:
		return "desktop"
	case PlatformTV:
		return "tv"
	default:
		return "unknown"
	}
}

// ParsePlatform converts a platform name (or a common OS alias) to a Platform.
func ParsePlatform(name string) (Platform, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "phone", "ios", "android", "mobile":
		return PlatformPhone, true
	case "desktop", "macos", "darwin", "linux", "windows":
		return PlatformDesktop, true
	case "tv", "tvos":
		return PlatformTV, true
	}
	return 0, false
}

// DefaultPlatform returns the platform matching the running GOOS.
func DefaultPlatform() Platform {
	if p, ok := ParsePlatform(runtime.GOOS); ok {
		return p
	}
	return PlatformPhone
}

var allPlatforms = []Platform{PlatformPhone, PlatformDesktop, PlatformTV}

// SectionID identifies a navigable settings destination.
// Values follow catalog order.
type SectionID int

const (
	SectionApp SectionID = iota
	SectionCore
	SectionPacketTunnel
	SectionOnDemandRules
	SectionProfileOverride
	SectionSponsors
)

// String returns the stable slug used for routes and deep links.
func (id SectionID) String() string {
	switch id {
	case SectionApp:
		return "app"
	case SectionCore:
		return "core"
	case SectionPacketTunnel:
		return "packet-tunnel"
	case SectionOnDemandRules:
		return "on-demand-rules"
	case SectionProfileOverride:
		return "profile-override"
	case SectionSponsors:
		return "sponsors"
	default:
		return "unknown"
	}
}

// ParseSectionID resolves a slug produced by SectionID.String.
func ParseSectionID(slug string) (SectionID, bool) {
	for _, entry := range sectionTable {
		if entry.id.String() == slug {
			return entry.id, true
		}
	}
	return 0, false
}

// Placement says where a section's navigation row is rendered.
type Placement int

const (
	// PlacementList renders the section as a top-level row.
	PlacementList Placement = iota
	// PlacementAbout renders the section inside the About block.
	PlacementAbout
)

// Section is one navigable settings destination.
type Section struct {
	ID        SectionID
	Platforms []Platform
	Placement Placement
	// Title is the localized display string.
	Title string
	// Icon is a symbolic icon name, see IconGlyph.
	Icon string
	// Content builds the destination page. It is only called on navigation.
	Content func() core.Widget
}

// AvailableOn reports whether the section exists on p.
func (s Section) AvailableOn(p Platform) bool {
	return slices.Contains(s.Platforms, p)
}

// Visible reports whether the section is shown on p for variant v.
// Sections placed in the About block need the system extension variant.
func (s Section) Visible(p Platform, v Variant) bool {
	if !s.AvailableOn(p) {
		return false
	}
	return s.Placement != PlacementAbout || v.UseSystemExtension
}

// Destinations holds the factories for every sub-screen reachable from the
// settings screen. Each factory takes no input from the screen.
type Destinations struct {
	App             func() core.Widget
	Core            func() core.Widget
	PacketTunnel    func() core.Widget
	OnDemandRules   func() core.Widget
	ProfileOverride func() core.Widget
	Sponsors        func() core.Widget
	ServiceLog      func() core.Widget
}

func (d Destinations) factory(id SectionID) func() core.Widget {
	switch id {
	case SectionApp:
		return d.App
	case SectionCore:
		return d.Core
	case SectionPacketTunnel:
		return d.PacketTunnel
	case SectionOnDemandRules:
		return d.OnDemandRules
	case SectionProfileOverride:
		return d.ProfileOverride
	case SectionSponsors:
		return d.Sponsors
	}
	return nil
}

type sectionEntry struct {
	id        SectionID
	platforms []Platform
	placement Placement
	title     string
	icon      string
}

// sectionTable is the catalog. Order here is the rendering order.
var sectionTable = []sectionEntry{
	{SectionApp, []Platform{PlatformDesktop}, PlacementList, "App", "app.badge.fill"},
	{SectionCore, allPlatforms, PlacementList, "Core", "shippingbox.fill"},
	{SectionPacketTunnel, allPlatforms, PlacementList, "Packet Tunnel", "aspectratio.fill"},
	{SectionOnDemandRules, allPlatforms, PlacementList, "On Demand Rules", "filemenu.and.selection"},
	{SectionProfileOverride, allPlatforms, PlacementList, "Profile Override", "square.dashed.inset.filled"},
	{SectionSponsors, []Platform{PlatformDesktop}, PlacementAbout, "Sponsors", "heart.fill"},
}

// Block identifies an auxiliary group of rows below the section list.
type Block int

const (
	BlockAbout Block = iota
	BlockDebug
)

func (b Block) String() string {
	switch b {
	case BlockAbout:
		return "About"
	case BlockDebug:
		return "Debug"
	default:
		return "unknown"
	}
}

var blockPlatforms = map[Block][]Platform{
	BlockAbout: {PlatformPhone, PlatformDesktop},
	BlockDebug: allPlatforms,
}

// Message keys and icons for rows inside the auxiliary blocks.
const (
	TitleDocumentation = "Documentation"
	TitleRate          = "Rate on the App Store"
	TitleVersion       = "Version"
	TitleServiceLog    = "Service Log"
	TitleCapability    = "Taiwan Flag Available"
	TitleLoading       = "Loading..."

	IconDocumentation = "doc.on.doc.fill"
	IconRate          = "text.bubble.fill"
	IconVersion       = "info.circle.fill"
	IconServiceLog    = "doc.on.clipboard"
	IconCapability    = "touchid"
)

// Catalog is the fixed, ordered set of sections bound to their destination
// factories and localized through a message printer.
type Catalog struct {
	destinations Destinations
	printer      *message.Printer
}

// NewCatalog binds the section table to dest. A nil printer leaves titles
// untranslated.
func NewCatalog(dest Destinations, printer *message.Printer) *Catalog {
	return &Catalog{destinations: dest, printer: printer}
}

// Destinations returns the factories the catalog was built with.
func (c *Catalog) Destinations() Destinations {
	return c.destinations
}

// Localize translates a message key with the catalog's printer.
func (c *Catalog) Localize(key string) string {
	if c.printer == nil {
		return key
	}
	return c.printer.Sprintf(key)
}

// AvailableSections returns the sections available on p in catalog order.
func (c *Catalog) AvailableSections(p Platform) []Section {
	sections := make([]Section, 0, len(sectionTable))
	for _, entry := range sectionTable {
		if !slices.Contains(entry.platforms, p) {
			continue
		}
		sections = append(sections, c.section(entry))
	}
	return sections
}

// VisibleSections returns the sections shown on p for variant v in catalog
// order.
func (c *Catalog) VisibleSections(p Platform, v Variant) []Section {
	sections := c.AvailableSections(p)
	visible := sections[:0]
	for _, section := range sections {
		if section.Visible(p, v) {
			visible = append(visible, section)
		}
	}
	return visible
}

// Section returns the catalog entry for id. Unknown ids panic.
func (c *Catalog) Section(id SectionID) Section {
	return c.section(mustEntry(id))
}

// TitleFor returns the localized title for id. Unknown ids panic.
func (c *Catalog) TitleFor(id SectionID) string {
	return c.Localize(mustEntry(id).title)
}

// IconFor returns the symbolic icon name for id. Unknown ids panic.
func (c *Catalog) IconFor(id SectionID) string {
	return mustEntry(id).icon
}

// HasBlock reports whether block b is rendered on p.
func (c *Catalog) HasBlock(b Block, p Platform) bool {
	return slices.Contains(blockPlatforms[b], p)
}

func (c *Catalog) section(entry sectionEntry) Section {
	return Section{
		ID:        entry.id,
		Platforms: slices.Clone(entry.platforms),
		Placement: entry.placement,
		Title:     c.Localize(entry.title),
		Icon:      entry.icon,
		Content:   c.destinations.factory(entry.id),
	}
}

func mustEntry(id SectionID) sectionEntry {
	for _, entry := range sectionTable {
		if entry.id == id {
			return entry
		}
	}
	panic(errors.AssertionFailedf("settings: section %d is not in the catalog", errors.Safe(int(id))))
}
