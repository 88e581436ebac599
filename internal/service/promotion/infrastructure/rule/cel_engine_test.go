package rule

import (
	"testing"

	"garde/internal/service/promotion/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyRuleAlwaysPasses(t *testing.T) {
	engine, err := NewCELRuleEngine()
	require.NoError(t, err)

	ok, err := engine.Evaluate("", domain.Fact{Subtotal: 1})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSubtotalThresholdRule(t *testing.T) {
	engine, err := NewCELRuleEngine()
	require.NoError(t, err)

	ok, err := engine.Evaluate("subtotal >= 1500.0", domain.Fact{Subtotal: 2000})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = engine.Evaluate("subtotal >= 1500.0", domain.Fact{Subtotal: 1000})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvalidRuleSurfacesError(t *testing.T) {
	engine, err := NewCELRuleEngine()
	require.NoError(t, err)

	_, err = engine.Evaluate("subtotal >=", domain.Fact{Subtotal: 1000})
	assert.Error(t, err)
}

func TestNonBooleanRuleRejected(t *testing.T) {
	engine, err := NewCELRuleEngine()
	require.NoError(t, err)

	_, err = engine.Evaluate("subtotal + 1.0", domain.Fact{Subtotal: 1000})
	assert.Error(t, err)
}
