// Package reforge implements the reforging engine: eligibility rules, moved
// value computation, the record store, and the attribute translation step.
package reforge

import (
	"sync"

	"github.com/emberfall/reforge/internal/config"
	"github.com/emberfall/reforge/internal/game/item"
)

const (
	// DefaultPercentage is the share of a stat moved by one reforge when the
	// configured value is out of range.
	DefaultPercentage = 50.0
	// DefaultCost is the currency price of one reforge when the configured
	// value is invalid.
	DefaultCost = 50000
	// MaxReforgeableAttributes caps the configured eligible-attribute list.
	// Longer lists are rejected outright and the set becomes empty.
	MaxReforgeableAttributes = 10
)

// Settings holds the live reforging configuration. Setters validate and clamp
// invalid input to defaults; they never fail. All methods are safe for
// concurrent use.
type Settings struct {
	mu         sync.RWMutex
	enabled    bool
	attributes []item.Attribute
	percentage float64
	cost       int64
}

// NewSettings returns Settings with the feature enabled, an empty eligible
// set, and default percentage and cost.
func NewSettings() *Settings {
	return &Settings{
		enabled:    true,
		percentage: DefaultPercentage,
		cost:       DefaultCost,
	}
}

// SetEnabled toggles the feature.
func (s *Settings) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// Enabled reports whether the feature is on.
func (s *Settings) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// SetAttributes replaces the eligible-attribute set from configured names.
// Order is preserved, duplicates collapse, and unknown names are dropped.
// A list longer than MaxReforgeableAttributes is rejected outright and the
// set becomes empty.
func (s *Settings) SetAttributes(names []string) {
	var attrs []item.Attribute
	if len(names) <= MaxReforgeableAttributes {
		seen := make(map[item.Attribute]bool, len(names))
		for _, name := range names {
			attr, err := item.ParseAttribute(name)
			if err != nil || seen[attr] {
				continue
			}
			seen[attr] = true
			attrs = append(attrs, attr)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.attributes = attrs
}

// Attributes returns a copy of the eligible-attribute set in configured order.
func (s *Settings) Attributes() []item.Attribute {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]item.Attribute, len(s.attributes))
	copy(out, s.attributes)
	return out
}

// IsReforgeableAttribute reports whether attr is in the eligible set.
func (s *Settings) IsReforgeableAttribute(attr item.Attribute) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.attributes {
		if a == attr {
			return true
		}
	}
	return false
}

// SetPercentage sets the moved-value percentage. Values outside (0, 100] are
// replaced by DefaultPercentage.
func (s *Settings) SetPercentage(pct float64) {
	if pct <= 0 || pct > 100 {
		pct = DefaultPercentage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.percentage = pct
}

// Percentage returns the current moved-value percentage.
func (s *Settings) Percentage() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.percentage
}

// SetCost sets the per-operation currency cost. Negative values are replaced
// by DefaultCost.
func (s *Settings) SetCost(cost int64) {
	if cost < 0 {
		cost = DefaultCost
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cost = cost
}

// Cost returns the current per-operation currency cost.
func (s *Settings) Cost() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cost
}

// ApplyConfig applies a full configuration section, clamping each value.
func (s *Settings) ApplyConfig(cfg config.ReforgeConfig) {
	s.SetEnabled(cfg.Enabled)
	s.SetAttributes(cfg.Attributes)
	s.SetPercentage(cfg.Percentage)
	s.SetCost(cfg.Cost)
}
