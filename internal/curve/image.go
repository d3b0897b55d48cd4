package curve

import (
	"errors"
	"image"
	"image/color"

	"github.com/inamate/playhead/internal/geom"
)

var ErrNoSilhouette = errors.New("image has no silhouette")

// maxSilhouettePoints caps the number of points taken from a traced outline.
const maxSilhouettePoints = 256

// moore lists the 8 neighbors clockwise starting west, in image coordinates.
var moore = [8]image.Point{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

// SetImage replaces the shape with the outline of the first silhouette found
// in raster order. A pixel is filled when it is mostly opaque and its
// luminance is at most threshold (0..1). The result is one unit tall.
func (c *Curve) SetImage(img image.Image, threshold float64) error {
	contour := TraceSilhouette(img, threshold)
	if len(contour) < 2 {
		return ErrNoSilhouette
	}

	step := 1
	if len(contour) > maxSilhouettePoints {
		step = (len(contour) + maxSilhouettePoints - 1) / maxSilhouettePoints
	}
	pts := make([]ControlPoint, 0, len(contour)/step+2)
	for i := 0; i < len(contour); i += step {
		p := contour[i]
		pts = append(pts, ControlPoint{Pos: geom.Vec3{X: float64(p.X), Y: float64(p.Y)}})
	}
	pts = append(pts, pts[0])

	h := float64(img.Bounds().Dy())
	c.replacePoints(pts)
	c.Resize(1/h, -1/h)
	c.RecomputeBounds(true)
	return nil
}

func filled(img image.Image, p image.Point, threshold float64) bool {
	if !p.In(img.Bounds()) {
		return false
	}
	g := color.Gray16Model.Convert(img.At(p.X, p.Y)).(color.Gray16)
	_, _, _, a := img.At(p.X, p.Y).RGBA()
	if a < 0x8000 {
		return false
	}
	return float64(g.Y)/0xffff <= threshold
}

// TraceSilhouette walks the boundary of the first filled region with Moore
// neighbor tracing and returns its pixels in clockwise order.
func TraceSilhouette(img image.Image, threshold float64) []image.Point {
	b := img.Bounds()
	start, found := image.Point{}, false
	for y := b.Min.Y; y < b.Max.Y && !found; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if filled(img, image.Pt(x, y), threshold) {
				start, found = image.Pt(x, y), true
				break
			}
		}
	}
	if !found {
		return nil
	}

	contour := []image.Point{start}
	cur := start
	dir := 0 // backtrack neighbor, west of the start pixel
	limit := 4*b.Dx()*b.Dy() + 8
	for iter := 0; iter < limit; iter++ {
		next := -1
		for i := 0; i < 8; i++ {
			d := (dir + i) % 8
			if filled(img, cur.Add(moore[d]), threshold) {
				next = d
				break
			}
		}
		if next < 0 {
			break
		}
		back := cur.Add(moore[(next+7)%8])
		cur = cur.Add(moore[next])
		dir = neighborIndex(back.Sub(cur))
		if cur == start {
			break
		}
		contour = append(contour, cur)
	}
	return contour
}

func neighborIndex(d image.Point) int {
	for i, m := range moore {
		if m == d {
			return i
		}
	}
	return 0
}
