package curve

import (
	"fmt"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/inamate/playhead/internal/geom"
)

// textEm is the pixel size glyphs are loaded at before scaling to a unit em.
const textEm = 1000

func fontData(family string) []byte {
	switch strings.ToLower(family) {
	case "mono", "monospace", "gomono":
		return gomono.TTF
	case "bold", "gobold":
		return gobold.TTF
	case "italic", "goitalic":
		return goitalic.TTF
	}
	return goregular.TTF
}

// SetText replaces the shape with the glyph outlines of text, one em tall.
// Family selects one of the Go fonts: regular (default), mono, bold, italic.
func (c *Curve) SetText(text, family string) error {
	pts, err := TextOutline(text, family)
	if err != nil {
		return err
	}
	c.replacePoints(pts)
	c.Resize(1.0/textEm, -1.0/textEm)
	c.RecomputeBounds(true)
	return nil
}

// TextOutline returns the glyph outlines of text in pixel units at textEm,
// Y pointing down.
func TextOutline(text, family string) ([]ControlPoint, error) {
	f, err := sfnt.Parse(fontData(family))
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	var (
		buf  sfnt.Buffer
		b    pathBuilder
		pen  float64
		ppem = fixed.I(textEm)
	)
	for _, r := range text {
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil {
			return nil, fmt.Errorf("glyph index %q: %w", r, err)
		}
		if idx == 0 {
			continue
		}

		segments, err := f.LoadGlyph(&buf, idx, ppem, nil)
		if err != nil {
			return nil, fmt.Errorf("load glyph %q: %w", r, err)
		}
		offset := geom.Vec3{X: pen}
		for _, seg := range segments {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				b.moveTo(fixedPoint(seg.Args[0]).Add(offset))
			case sfnt.SegmentOpLineTo:
				b.lineTo(fixedPoint(seg.Args[0]).Add(offset))
			case sfnt.SegmentOpQuadTo:
				b.quadTo(fixedPoint(seg.Args[0]).Add(offset), fixedPoint(seg.Args[1]).Add(offset))
			case sfnt.SegmentOpCubeTo:
				b.cubicTo(fixedPoint(seg.Args[0]).Add(offset), fixedPoint(seg.Args[1]).Add(offset), fixedPoint(seg.Args[2]).Add(offset))
			}
		}

		advance, err := f.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("glyph advance %q: %w", r, err)
		}
		pen += float64(advance) / 64
	}

	if len(b.pts) == 0 {
		return nil, fmt.Errorf("text %q has no outline", text)
	}
	return b.pts, nil
}

func fixedPoint(p fixed.Point26_6) geom.Vec3 {
	return geom.Vec3{X: float64(p.X) / 64, Y: float64(p.Y) / 64}
}
