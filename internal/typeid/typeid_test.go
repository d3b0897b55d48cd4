package typeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesPrefix(t *testing.T) {
	id := NewCurveID()
	assert.True(t, strings.HasPrefix(id, PrefixCurve+"_"))
	require.NoError(t, Validate(id, PrefixCurve))
}

func TestValidateRejectsWrongPrefix(t *testing.T) {
	id := NewCursorID()
	err := Validate(id, PrefixCurve)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected prefix")
}

func TestValidateRejectsGarbage(t *testing.T) {
	require.Error(t, Validate("not an id", PrefixTrigger))
	require.Error(t, Validate("", PrefixTrigger))
}

func TestNewIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewTriggerID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}
