package settings

// iconGlyphs maps the symbolic icon names used by the catalog to glyphs
// that widgets.Icon can render with the platform emoji font.
var iconGlyphs = map[string]string{
	"app.badge.fill":             "\U0001F5A5",
	"shippingbox.fill":           "\U0001F4E6",
	"aspectratio.fill":           "▣",
	"filemenu.and.selection":     "☰",
	"square.dashed.inset.filled": "▩",
	"heart.fill":                 "♥",
	"doc.on.doc.fill":            "\U0001F4C4",
	"text.bubble.fill":           "\U0001F4AC",
	"info.circle.fill":           "ℹ",
	"doc.on.clipboard":           "\U0001F4CB",
	"touchid":                    "\U0001FAC6",
}

const fallbackGlyph = "•"

// IconGlyph resolves a symbolic icon name to a renderable glyph.
// Unknown names render as a bullet.
func IconGlyph(symbol string) string {
	if glyph, ok := iconGlyphs[symbol]; ok {
		return glyph
	}
	return fallbackGlyph
}
