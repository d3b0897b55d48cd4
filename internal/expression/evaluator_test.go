package expression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateTriple(t *testing.T) {
	e := New()
	var tv float64
	e.DefineConstant("TWO_PI", 2*math.Pi)
	e.DefineVariable("t", &tv)
	require.NoError(t, e.SetExpression("cos(TWO_PI*t), sin(TWO_PI*t), 0"))

	tv = 0.25
	out, err := e.Evaluate(3)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, out[0], 1e-12)
	assert.InDelta(t, 1.0, out[1], 1e-12)
	assert.Equal(t, 0.0, out[2])

	tv = 0.5
	out, err = e.Evaluate(3)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, out[0], 1e-12)
}

func TestEvaluateArityMismatch(t *testing.T) {
	e := New()
	require.NoError(t, e.SetExpression("1, 2"))

	_, err := e.Evaluate(3)
	require.ErrorIs(t, err, ErrArity)
}

func TestSetExpressionSyntaxError(t *testing.T) {
	e := New()
	err := e.SetExpression("cos(, 1")
	require.Error(t, err)

	_, err = e.Evaluate(3)
	require.Error(t, err)
}

func TestUndefinedName(t *testing.T) {
	e := New()
	require.Error(t, e.SetExpression("radius * 2, 0, 0"))
}

func TestEmptyExpression(t *testing.T) {
	e := New()
	require.ErrorIs(t, e.SetExpression("  "), ErrNoExpression)
}

func TestConstantsDefinedAfterExpression(t *testing.T) {
	e := New()
	var tv float64
	e.DefineVariable("t", &tv)
	require.NoError(t, e.SetExpression("t, t * 2, t ^ 2"))

	e.DefineConstant("param1", 3)
	tv = 3
	out, err := e.Evaluate(3)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 6, 9}, out)
}

func TestFunctions(t *testing.T) {
	e := New()
	require.NoError(t, e.SetExpression("sqrt(16), atan2(1, 1), pow(2, 10)"))

	out, err := e.Evaluate(3)
	require.NoError(t, err)
	assert.Equal(t, 4.0, out[0])
	assert.InDelta(t, math.Pi/4, out[1], 1e-12)
	assert.Equal(t, 1024.0, out[2])
}
