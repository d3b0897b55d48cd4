package curve

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/playhead/internal/geom"
)

func TestEquationCartesianCircle(t *testing.T) {
	c := New("curve_eq")
	require.NoError(t, c.SetEquation(KindEquationCartesian, "cos(TWO_PI*t), sin(TWO_PI*t), 0"))
	c.Update()

	assert.Equal(t, KindEquationCartesian, c.Kind())
	assertVec(t, geom.V3(1, 0, 0), c.QueryPointAt(0, false), 1e-12)
	assertVec(t, geom.V3(0, 1, 0), c.QueryPointAt(0.25, false), 1e-12)
	assert.InDelta(t, 2*math.Pi, c.PathLength(), 0.01)

	// Absolute parameters are divided by the path length.
	assertVec(t, c.QueryPointAt(0.5, false), c.QueryPointAt(0.5*c.PathLength(), true), 1e-9)
}

func TestEquationPolar(t *testing.T) {
	c := New("curve_polar")
	require.NoError(t, c.SetEquation(KindEquationPolar, "2, HALF_PI, TWO_PI*t"))
	c.Update()

	assertVec(t, geom.V3(2, 0, 0), c.QueryPointAt(0, false), 1e-12)
	assertVec(t, geom.V3(0, 0, 2), c.QueryPointAt(0.25, false), 1e-12)
}

func TestEquationInvalid(t *testing.T) {
	c := New("curve_bad")
	err := c.SetEquation(KindEquationCartesian, "1, 2")
	require.ErrorIs(t, err, ErrInvalidEquation)
	c.Update()

	info := c.EquationInfo()
	require.NotNil(t, info)
	assert.False(t, info.Valid)
	assert.Equal(t, geom.Vec3{}, c.QueryPointAt(0.3, false))
	assert.Equal(t, 1.0, c.PathLength())

	require.ErrorIs(t, c.SetEquation(KindEquationCartesian, "cos(, 0, 0"), ErrInvalidEquation)
}

func TestEquationParams(t *testing.T) {
	c := New("curve_params")
	require.NoError(t, c.SetEquation(KindEquationCartesian, "param1 * 2, param2, t"))

	info := c.EquationInfo()
	assert.Equal(t, 0.5, info.Params["param1"])
	assert.Equal(t, 0.5, info.Params["param5"])
	assert.Equal(t, DefaultEquationSamples, info.Samples)
	assertVec(t, geom.V3(1, 0.5, 0.5), c.QueryPointAt(0.5, false), 1e-12)

	require.NoError(t, c.SetEquationParam("param1", 3))
	assertVec(t, geom.V3(6, 0.5, 0.5), c.QueryPointAt(0.5, false), 1e-12)

	require.NoError(t, c.SetEquationParam("radius", 4))
	require.NoError(t, c.SetEquation(KindEquationPolar, "radius, HALF_PI, 0"))
	assertVec(t, geom.V3(4, 0, 0), c.QueryPointAt(0, false), 1e-12)
	assert.Equal(t, 3.0, c.EquationInfo().Params["param1"], "parameters carry over")

	c.SetEquationSamples(50)
	assert.Len(t, c.Outline(), 51)
}

func TestEquationCannotResize(t *testing.T) {
	c := New("curve_eq")
	require.NoError(t, c.SetEquation(KindEquationCartesian, "t, 0, 0"))
	c.Resize(5, 5)
	assertVec(t, geom.V3(1, 0, 0), c.QueryPointAt(1, false), 1e-12)
}

func TestSetEquationParamOnPoints(t *testing.T) {
	c := New("curve_points")
	require.Error(t, c.SetEquationParam("param1", 1))
	assert.Nil(t, c.EquationInfo())
}

func TestSetShapeDiscardsPoints(t *testing.T) {
	c := pointCurve(t, geom.V3(0, 0, 0), geom.V3(1, 0, 0))
	require.NoError(t, c.SetShape(NewEllipse(1, 1)))
	assert.Nil(t, c.Points())

	c.SetControlPoint(0, ControlPoint{Pos: geom.V3(5, 5, 0)}, true)
	assert.Equal(t, KindPoints, c.Kind())
	assert.Len(t, c.Points(), 1)
}

func TestParseSVGPathLines(t *testing.T) {
	pts, err := ParseSVGPath("M0 0 L10 0 L10 10 Z")
	require.NoError(t, err)
	require.Len(t, pts, 4)
	assert.Equal(t, geom.V3(10, 10, 0), pts[2].Pos)
	assert.Equal(t, geom.V3(0, 0, 0), pts[3].Pos)

	pts, err = ParseSVGPath("m1,1 h2 v2 l-1-1")
	require.NoError(t, err)
	require.Len(t, pts, 4)
	assert.Equal(t, geom.V3(3, 1, 0), pts[1].Pos)
	assert.Equal(t, geom.V3(3, 3, 0), pts[2].Pos)
	assert.Equal(t, geom.V3(2, 2, 0), pts[3].Pos)
}

func TestParseSVGPathCurves(t *testing.T) {
	pts, err := ParseSVGPath("M0,0 C0,10 10,10 10,0 S20,-10 20,0 Q25,5 30,0 T40,0")
	require.NoError(t, err)
	require.Len(t, pts, 5)

	assert.Equal(t, geom.V3(0, 10, 0), pts[1].Handle1)
	assert.Equal(t, geom.V3(0, 10, 0), pts[1].Handle2)
	// The smooth cubic reflects the previous second control point.
	assert.Equal(t, geom.V3(0, -10, 0), pts[2].Handle1)
	assert.Equal(t, geom.V3(40, 0, 0), pts[4].Pos)
}

func TestParseSVGPathArc(t *testing.T) {
	pts, err := ParseSVGPath("M0 0 A5 5 0 0 1 10 0")
	require.NoError(t, err)
	require.Len(t, pts, 3)
	assertVec(t, geom.V3(10, 0, 0), pts[2].Pos, 1e-9)
	assert.InDelta(t, 5, pts[1].Pos.X, 1e-9)
	assert.InDelta(t, 5, math.Abs(pts[1].Pos.Y), 1e-9)
}

func TestParseSVGPathErrors(t *testing.T) {
	for _, d := range []string{"", "10 10", "M0 0 L1", "M0 0 A1 1 0 2 0 1 1", "M0 0 Z 5 5", "M0 0 X1 1"} {
		_, err := ParseSVGPath(d)
		assert.ErrorIs(t, err, ErrPathSyntax, "path %q", d)
	}
}

func TestSetSVGFlipsY(t *testing.T) {
	c := New("curve_svg")
	require.NoError(t, c.SetSVG("M0 0 L0 10"))
	pts := c.Points()
	require.Len(t, pts, 2)
	assert.Equal(t, geom.V3(0, -10, 0), pts[1].Pos)
	assert.Equal(t, 10.0, c.PathLength())
}

func TestSetPolyline(t *testing.T) {
	c := New("curve_poly")
	require.NoError(t, c.SetPolyline("0,0 3,4 3,4,12"))
	pts := c.Points()
	require.Len(t, pts, 3)
	assert.Equal(t, geom.V3(3, 4, 12), pts[2].Pos)
	assert.Equal(t, 17.0, c.PathLength())

	require.ErrorIs(t, c.SetPolyline("1,2 3"), ErrPathSyntax)
	require.ErrorIs(t, c.SetPolyline(""), ErrPathSyntax)
	assert.Len(t, c.Points(), 3, "a failed import leaves the curve untouched")
}

func TestSetText(t *testing.T) {
	c := New("curve_text")
	require.NoError(t, c.SetText("Hi", ""))

	assert.Greater(t, len(c.Points()), 8)
	size := c.Bounds().Size()
	assert.Greater(t, size.Y, 0.5)
	assert.Less(t, size.Y, 1.2)
	assert.Greater(t, size.X, size.Y*0.5)

	require.NoError(t, c.SetText("o", "mono"))
	require.Error(t, c.SetText(" ", "bold"), "whitespace has no outline")
}

func TestTraceSilhouetteRectangle(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	for y := 3; y <= 7; y++ {
		for x := 2; x <= 6; x++ {
			img.SetGray(x, y, color.Gray{Y: 0})
		}
	}

	contour := TraceSilhouette(img, 0.5)
	assert.Len(t, contour, 16)
	assert.Equal(t, image.Pt(2, 3), contour[0])

	c := New("curve_image")
	require.NoError(t, c.SetImage(img, 0.5))
	pts := c.Points()
	assert.Equal(t, pts[0].Pos, pts[len(pts)-1].Pos)
	size := c.Bounds().Size()
	assert.InDelta(t, 0.4, size.X, 1e-9)
	assert.InDelta(t, 0.4, size.Y, 1e-9)
}

func TestSetImageEmpty(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	c := New("curve_image")
	require.ErrorIs(t, c.SetImage(img, 1), ErrNoSilhouette)
}
