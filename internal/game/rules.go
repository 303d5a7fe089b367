// internal/game/rules.go
package game

import "fmt"

const (
	// DefaultPointMultiplier is the stake used when a table does not set one.
	DefaultPointMultiplier = 100
	// MaxPointMultiplier caps the stake so that scores stay well within int range.
	MaxPointMultiplier = 1_000_000
)

// ChopRules configures which plays count as chops and what they are worth.
type ChopRules struct {
	QuadMin          int `json:"quadMin"`          // lowest strength treated as a four-of-a-kind chop
	QuadMax          int `json:"quadMax"`          // highest strength treated as a four-of-a-kind chop
	StraightFlushMin int `json:"straightFlushMin"` // lowest strength treated as a straight-flush chop
	StraightFlushMax int `json:"straightFlushMax"` // highest strength treated as a straight-flush chop
	TwoPoints        int `json:"twoPoints"`        // taken for chopping a single Two
	ComboPoints      int `json:"comboPoints"`      // taken for chopping a plain five-card play
	BombPoints       int `json:"bombPoints"`       // taken for chopping another chop
	MaxChain         int `json:"maxChain"`         // most prior plays a single chop can score against
}

// HouseRules are per-table settings that adjust scoring and timing.
type HouseRules struct {
	PointMultiplier   int       `json:"pointMultiplier"`   // stake for the game; winners split it, the loser pays it
	ThirdPlacePenalty bool      `json:"thirdPlacePenalty"` // the third player out also pays half the stake
	PassTimeoutSec    int       `json:"passTimeoutSec"`    // seconds before an idle seat is passed automatically; 0 disables
	Chop              ChopRules `json:"chop"`
}

// DefaultChopRules returns the standard chop bands and point tiers.
func DefaultChopRules() ChopRules {
	return ChopRules{
		QuadMin:          702,
		QuadMax:          716,
		StraightFlushMin: 804,
		StraightFlushMax: 1215,
		TwoPoints:        100,
		ComboPoints:      100,
		BombPoints:       200,
		MaxChain:         3,
	}
}

// DefaultHouseRules returns the rules a new table starts with.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		PointMultiplier:   DefaultPointMultiplier,
		ThirdPlacePenalty: true,
		Chop:              DefaultChopRules(),
	}
}

// ValidPointMultiplier reports whether pm is a positive multiple of 10 within bounds.
func ValidPointMultiplier(pm int) bool {
	return pm > 0 && pm%10 == 0 && pm <= MaxPointMultiplier
}

// IsChop reports whether a play of the given strength falls in a chop band.
func (c ChopRules) IsChop(strength int) bool {
	return (strength >= c.QuadMin && strength <= c.QuadMax) ||
		(strength >= c.StraightFlushMin && strength <= c.StraightFlushMax)
}

// Update applies the keys present in newRules; absent or nil keys keep their value.
// Numbers may arrive as float64 (decoded JSON) or int.
func (rules *HouseRules) Update(newRules map[string]interface{}) error {
	assignBool := func(field *bool, key string) error {
		val, exists := newRules[key]
		if !exists || val == nil {
			return nil
		}
		b, ok := val.(bool)
		if !ok {
			return fmt.Errorf("invalid type for %s", key)
		}
		*field = b
		return nil
	}

	if err := assignBool(&rules.ThirdPlacePenalty, "thirdPlacePenalty"); err != nil {
		return err
	}
	if err := assignInt(newRules, &rules.PassTimeoutSec, "passTimeoutSec", 0); err != nil {
		return err
	}
	if val, exists := newRules["pointMultiplier"]; exists && val != nil {
		var pm int
		if err := assignInt(newRules, &pm, "pointMultiplier", 1); err != nil {
			return err
		}
		if !ValidPointMultiplier(pm) {
			return fmt.Errorf("%w: %d", ErrInvalidPointMultiplier, pm)
		}
		rules.PointMultiplier = pm
	}
	if val, exists := newRules["chop"]; exists && val != nil {
		chop, ok := val.(map[string]interface{})
		if !ok {
			return fmt.Errorf("invalid type for chop")
		}
		if err := rules.Chop.update(chop); err != nil {
			return fmt.Errorf("chop: %w", err)
		}
	}
	return nil
}

func (c *ChopRules) update(m map[string]interface{}) error {
	fields := []struct {
		key   string
		field *int
	}{
		{"quadMin", &c.QuadMin},
		{"quadMax", &c.QuadMax},
		{"straightFlushMin", &c.StraightFlushMin},
		{"straightFlushMax", &c.StraightFlushMax},
		{"twoPoints", &c.TwoPoints},
		{"comboPoints", &c.ComboPoints},
		{"bombPoints", &c.BombPoints},
		{"maxChain", &c.MaxChain},
	}
	for _, f := range fields {
		if err := assignInt(m, f.field, f.key, 0); err != nil {
			return err
		}
	}
	if c.QuadMin > c.QuadMax || c.StraightFlushMin > c.StraightFlushMax {
		return fmt.Errorf("band minimum exceeds maximum")
	}
	return nil
}

func assignInt(m map[string]interface{}, field *int, key string, minVal int) error {
	val, exists := m[key]
	if !exists || val == nil {
		return nil
	}
	var n int
	switch v := val.(type) {
	case float64:
		if v != float64(int(v)) {
			return fmt.Errorf("%s must be an integer", key)
		}
		n = int(v)
	case int:
		n = v
	default:
		return fmt.Errorf("invalid type for %s", key)
	}
	if n < minVal {
		return fmt.Errorf("%s must be at least %d", key, minVal)
	}
	*field = n
	return nil
}

// ParseRules applies rules on top of current and returns the result. current is untouched.
func ParseRules(rules map[string]interface{}, current HouseRules) (HouseRules, error) {
	houseRules := current
	err := houseRules.Update(rules)
	return houseRules, err
}
