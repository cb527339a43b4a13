package overlay

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// fontFiles maps the font references used by variants to embedded faces.
var fontFiles = map[string][]byte{
	"display":     gobold.TTF,
	"body":        goregular.TTF,
	"medium":      gomedium.TTF,
	"mono":        gomono.TTF,
	"mono-bold":   gomonobold.TTF,
	"italic":      goitalic.TTF,
	"italic-bold": gobolditalic.TTF,
}

type faceKey struct {
	name string
	size float64
}

// Fonts caches parsed fonts and sized faces. Unknown references use the
// body face.
type Fonts struct {
	mu     sync.Mutex
	parsed map[string]*opentype.Font
	faces  map[faceKey]font.Face
}

func NewFonts() *Fonts {
	return &Fonts{
		parsed: make(map[string]*opentype.Font),
		faces:  make(map[faceKey]font.Face),
	}
}

// Face returns the face for a font reference at size points.
func (f *Fonts) Face(name string, size float64) font.Face {
	if _, ok := fontFiles[name]; !ok {
		name = "body"
	}
	key := faceKey{name, size}

	f.mu.Lock()
	defer f.mu.Unlock()

	if face, ok := f.faces[key]; ok {
		return face
	}

	fnt, ok := f.parsed[name]
	if !ok {
		var err error
		fnt, err = opentype.Parse(fontFiles[name])
		if err != nil {
			return basicfont.Face7x13
		}
		f.parsed[name] = fnt
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return basicfont.Face7x13
	}
	f.faces[key] = face
	return face
}
