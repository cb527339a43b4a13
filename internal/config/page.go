package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taptide/beerscroll/internal/overlay"
	"github.com/taptide/beerscroll/internal/scroll"
	"github.com/taptide/beerscroll/internal/variant"
)

// Frames locates a sequence by the {base}{NNN}.jpg convention.
type Frames struct {
	Base  string `yaml:"base"`
	Count int    `yaml:"count"`
}

// Page is everything an embedding page supplies to the component.
type Page struct {
	Name         string              `yaml:"name"`
	Frames       Frames              `yaml:"frames"`
	ScrollHeight float64             `yaml:"scroll_height"` // in viewport heights
	Spring       scroll.SpringConfig `yaml:"spring"`
	Variant      int                 `yaml:"variant"`
	CTA          overlay.CTA         `yaml:"cta"`
	Overlays     []overlay.Block     `yaml:"overlays"`
}

const (
	DefaultFramesBase   = "/sequenced/ezgif-frame-"
	DefaultFrameCount   = 110
	DefaultScrollHeight = 5
)

// DefaultOverlays is the copy of the home page.
func DefaultOverlays() []overlay.Block {
	return []overlay.Block{
		{Text: "The Perfect Pour", Subtext: "begins with precision.", Start: 0.05, End: 0.25, Align: overlay.AlignLeft},
		{Text: "Cold, crisp,", Subtext: "and captured in amber.", Start: 0.35, End: 0.55, Align: overlay.AlignRight},
		{Text: "Every glass", Subtext: "tells a story.", Start: 0.65, End: 0.85, Align: overlay.AlignLeft},
		{Text: "Your table awaits.", Start: 0.85, End: 1.1, Align: overlay.AlignCenter, Position: overlay.PositionBottom, ShowCTA: true},
	}
}

// DefaultPage reproduces the home page.
func DefaultPage() Page {
	return Page{
		Name:         "home",
		Frames:       Frames{Base: DefaultFramesBase, Count: DefaultFrameCount},
		ScrollHeight: DefaultScrollHeight,
		Spring:       scroll.DefaultSpring,
		Variant:      int(variant.Default),
		CTA:          overlay.DefaultCTA,
		Overlays:     DefaultOverlays(),
	}
}

// VariantPage is the home page restyled by a variant, with the snappier
// spring the variant pages use.
func VariantPage(id variant.ID) Page {
	return DefaultPage().WithVariant(id)
}

// WithVariant restyles p: variant tokens, title and spring change, frames
// and overlays stay. Unknown ids resolve to the default variant.
func (p Page) WithVariant(id variant.ID) Page {
	v := variant.Lookup(id)
	p.Name = v.Title()
	p.Variant = int(v.ID)
	p.Spring = scroll.SnappySpring
	return p
}

// LoadPage reads a page description. Missing fields take the home page
// values; an explicit empty overlays list is kept.
func LoadPage(path string) (Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Page{}, err
	}
	return ParsePage(data)
}

func ParsePage(data []byte) (Page, error) {
	p := DefaultPage()
	p.Overlays = nil
	var raw struct {
		Overlays *[]overlay.Block `yaml:"overlays"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Page{}, fmt.Errorf("parse page: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Page{}, fmt.Errorf("parse page: %w", err)
	}
	if raw.Overlays == nil {
		p.Overlays = DefaultOverlays()
	}
	if err := p.Validate(); err != nil {
		return Page{}, err
	}
	return p, nil
}

// Validate checks the contract between page and component.
func (p Page) Validate() error {
	if p.Frames.Count <= 0 {
		return fmt.Errorf("page %q: frame count must be positive, got %d", p.Name, p.Frames.Count)
	}
	if p.Frames.Base == "" {
		return fmt.Errorf("page %q: empty frames base path", p.Name)
	}
	if p.ScrollHeight <= 1 {
		return fmt.Errorf("page %q: scroll height must exceed one viewport, got %v", p.Name, p.ScrollHeight)
	}
	for i, b := range p.Overlays {
		switch b.Align {
		case overlay.AlignLeft, overlay.AlignCenter, overlay.AlignRight:
		default:
			return fmt.Errorf("page %q: overlay %d: unknown align %q", p.Name, i, b.Align)
		}
		switch b.Position {
		case "", overlay.PositionCenter, overlay.PositionBottom:
		default:
			return fmt.Errorf("page %q: overlay %d: unknown position %q", p.Name, i, b.Position)
		}
	}
	return nil
}

// WritePage saves p as YAML.
func WritePage(p Page, path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
