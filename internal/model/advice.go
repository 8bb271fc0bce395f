package model

import "fmt"

// AdviceCategory is the closed set of coaching categories.
type AdviceCategory int

const (
	CategoryNeutral AdviceCategory = iota
	CategoryClimbing
	CategorySprinting
	CategoryCruising
	CategoryCrossChain
)

// AllCategories lists every category in wire order.
var AllCategories = []AdviceCategory{
	CategoryClimbing,
	CategorySprinting,
	CategoryCruising,
	CategoryCrossChain,
	CategoryNeutral,
}

func (c AdviceCategory) String() string {
	switch c {
	case CategoryNeutral:
		return "neutral"
	case CategoryClimbing:
		return "climbing"
	case CategorySprinting:
		return "sprinting"
	case CategoryCruising:
		return "cruising"
	case CategoryCrossChain:
		return "cross-chain"
	default:
		return "unknown"
	}
}

// ParseAdviceCategory maps a wire name to its category.
func ParseAdviceCategory(s string) (AdviceCategory, error) {
	for _, c := range AllCategories {
		if c.String() == s {
			return c, nil
		}
	}
	return CategoryNeutral, fmt.Errorf("unknown advice category %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c AdviceCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *AdviceCategory) UnmarshalText(b []byte) error {
	parsed, err := ParseAdviceCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// FallbackText is shown whenever the advisory service cannot answer.
const FallbackText = "Keep pedaling! Maintain a smooth cadence for optimal efficiency."

// AdviceResult is a coaching tip and its category.
type AdviceResult struct {
	Advice   string         `json:"advice"`
	Category AdviceCategory `json:"category"`
}

// FallbackAdvice returns the fixed neutral result.
func FallbackAdvice() AdviceResult {
	return AdviceResult{Advice: FallbackText, Category: CategoryNeutral}
}
