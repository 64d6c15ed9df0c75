package reforge

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/emberfall/reforge/internal/config"
	"github.com/emberfall/reforge/internal/game/item"
)

func TestNewSettingsDefaults(t *testing.T) {
	s := NewSettings()
	assert.True(t, s.Enabled())
	assert.Empty(t, s.Attributes())
	assert.Equal(t, DefaultPercentage, s.Percentage())
	assert.Equal(t, int64(DefaultCost), s.Cost())
}

func TestSetAttributes(t *testing.T) {
	s := NewSettings()
	s.SetAttributes([]string{"strength", "agility", "crit_rating"})

	attrs := s.Attributes()
	require.Len(t, attrs, 3)
	assert.Equal(t, item.AttrStrength, attrs[0])
	assert.Equal(t, item.AttrAgility, attrs[1])
	assert.Equal(t, item.AttrCritRating, attrs[2])
	assert.True(t, s.IsReforgeableAttribute(item.AttrAgility))
	assert.False(t, s.IsReforgeableAttribute(item.AttrStamina))
}

func TestSetAttributesDropsUnknownAndDuplicates(t *testing.T) {
	s := NewSettings()
	s.SetAttributes([]string{"strength", "luck", "strength", "stamina"})

	attrs := s.Attributes()
	require.Len(t, attrs, 2)
	assert.Equal(t, item.AttrStrength, attrs[0])
	assert.Equal(t, item.AttrStamina, attrs[1])
}

func TestSetAttributesOversizedListRejected(t *testing.T) {
	var names []string
	for i := 0; i < 40; i++ {
		names = append(names, fmt.Sprintf("attr_%d", i))
	}
	s := NewSettings()
	s.SetAttributes([]string{"strength"})
	s.SetAttributes(names)
	assert.Empty(t, s.Attributes())
}

func TestSetAttributesOversizedEvenIfValid(t *testing.T) {
	// More raw entries than the cap empties the set even when every name is
	// a valid attribute.
	var names []string
	for _, a := range item.Attributes() {
		names = append(names, string(a))
	}
	require.Greater(t, len(names), MaxReforgeableAttributes)

	s := NewSettings()
	s.SetAttributes(names)
	assert.Empty(t, s.Attributes())
}

func TestSetPercentageClamping(t *testing.T) {
	s := NewSettings()

	s.SetPercentage(10)
	assert.Equal(t, 10.0, s.Percentage())

	s.SetPercentage(0)
	assert.Equal(t, DefaultPercentage, s.Percentage())

	s.SetPercentage(-5)
	assert.Equal(t, DefaultPercentage, s.Percentage())

	s.SetPercentage(100)
	assert.Equal(t, 100.0, s.Percentage())

	s.SetPercentage(101)
	assert.Equal(t, DefaultPercentage, s.Percentage())
}

func TestSetCostClamping(t *testing.T) {
	s := NewSettings()

	s.SetCost(0)
	assert.Equal(t, int64(0), s.Cost())

	s.SetCost(12345)
	assert.Equal(t, int64(12345), s.Cost())

	s.SetCost(-1)
	assert.Equal(t, int64(DefaultCost), s.Cost())
}

func TestApplyConfig(t *testing.T) {
	s := NewSettings()
	s.ApplyConfig(config.ReforgeConfig{
		Enabled:    false,
		Attributes: []string{"spirit", "intellect"},
		Percentage: 30,
		Cost:       1000,
	})

	assert.False(t, s.Enabled())
	assert.Equal(t, []item.Attribute{item.AttrSpirit, item.AttrIntellect}, s.Attributes())
	assert.Equal(t, 30.0, s.Percentage())
	assert.Equal(t, int64(1000), s.Cost())
}

func TestPercentageAlwaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewSettings()
		s.SetPercentage(rapid.Float64Range(-1000, 1000).Draw(t, "pct"))
		pct := s.Percentage()
		if pct <= 0 || pct > 100 {
			t.Fatalf("percentage out of range: %v", pct)
		}
	})
}

func TestCostNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewSettings()
		s.SetCost(rapid.Int64Range(-1_000_000, 1_000_000).Draw(t, "cost"))
		if s.Cost() < 0 {
			t.Fatalf("cost negative: %d", s.Cost())
		}
	})
}
