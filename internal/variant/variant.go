// Package variant holds the closed set of visual treatments a BeerScroll page
// can be rendered with. A variant only swaps style tokens; the renderer and
// the reveal engine run the same algorithms for every variant.
package variant

import (
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a variant. Route parameters carry it as "1".."5".
type ID int

const (
	ClassicElegance ID = iota + 1
	BrutalistModern
	CoastalMinimalism
	NeonNightlife
	VintagePub
)

// Default is used whenever an unknown identifier reaches the core.
const Default = ClassicElegance

// CTAStyle selects how the call-to-action button is painted.
type CTAStyle string

const (
	CTASolid    CTAStyle = "solid"
	CTAOutline  CTAStyle = "outline"
	CTAGlow     CTAStyle = "glow"
	CTAGradient CTAStyle = "gradient"
	CTAVintage  CTAStyle = "vintage"
)

// OverlayStyle selects the reveal treatment of text blocks.
type OverlayStyle string

const (
	OverlayFade       OverlayStyle = "fade"
	OverlaySlide      OverlayStyle = "slide"
	OverlayScale      OverlayStyle = "scale"
	OverlayBlur       OverlayStyle = "blur"
	OverlayTypewriter OverlayStyle = "typewriter"
)

// Variant is an immutable bundle of style tokens.
type Variant struct {
	ID              ID
	Name            string
	HeadingFont     string
	BodyFont        string
	AccentColor     string
	BackgroundColor string
	TextColor       string
	CTAStyle        CTAStyle
	OverlayStyle    OverlayStyle
}

var table = map[ID]Variant{
	ClassicElegance: {
		ID:              ClassicElegance,
		Name:            "Classic Elegance",
		HeadingFont:     "display",
		BodyFont:        "body",
		AccentColor:     "#AC8A4D",
		BackgroundColor: "#0B1E2D",
		TextColor:       "#F4F1E1",
		CTAStyle:        CTASolid,
		OverlayStyle:    OverlayFade,
	},
	BrutalistModern: {
		ID:              BrutalistModern,
		Name:            "Brutalist Modern",
		HeadingFont:     "mono-bold",
		BodyFont:        "mono",
		AccentColor:     "#FF3B00",
		BackgroundColor: "#111111",
		TextColor:       "#FFFFFF",
		CTAStyle:        CTAOutline,
		OverlayStyle:    OverlaySlide,
	},
	CoastalMinimalism: {
		ID:              CoastalMinimalism,
		Name:            "Coastal Minimalism",
		HeadingFont:     "medium",
		BodyFont:        "body",
		AccentColor:     "#3A7CA5",
		BackgroundColor: "#F2EFE9",
		TextColor:       "#1B2A34",
		CTAStyle:        CTAGradient,
		OverlayStyle:    OverlayScale,
	},
	NeonNightlife: {
		ID:              NeonNightlife,
		Name:            "Neon Nightlife",
		HeadingFont:     "display",
		BodyFont:        "medium",
		AccentColor:     "#FF2E88",
		BackgroundColor: "#0A0014",
		TextColor:       "#F5E9FF",
		CTAStyle:        CTAGlow,
		OverlayStyle:    OverlayBlur,
	},
	VintagePub: {
		ID:              VintagePub,
		Name:            "Vintage Pub",
		HeadingFont:     "italic-bold",
		BodyFont:        "italic",
		AccentColor:     "#C9A227",
		BackgroundColor: "#2B1A10",
		TextColor:       "#F3E5C0",
		CTAStyle:        CTAVintage,
		OverlayStyle:    OverlayTypewriter,
	},
}

// Lookup returns the variant for id, falling back to Default.
func Lookup(id ID) Variant {
	if v, ok := table[id]; ok {
		return v
	}
	return table[Default]
}

// Parse resolves a route parameter. ok is false for anything outside the
// fixed set so the caller can answer "not found" instead of falling back.
func Parse(param string) (ID, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(param))
	if err != nil {
		return 0, false
	}
	id := ID(n)
	if _, ok := table[id]; !ok {
		return 0, false
	}
	return id, true
}

// All returns every variant in identifier order.
func All() []Variant {
	out := make([]Variant, 0, len(table))
	for id := ClassicElegance; id <= VintagePub; id++ {
		out = append(out, table[id])
	}
	return out
}

// Title is the page title used for variant pages.
func (v Variant) Title() string {
	return fmt.Sprintf("Taptide | %s", v.Name)
}

func (id ID) String() string {
	return strconv.Itoa(int(id))
}
