package entities

import "fmt"

// RiskLevel is the tier a risk or concentration score falls into
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

// String method for RiskLevel enum
func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return "unknown"
	}
}

func (r RiskLevel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *RiskLevel) UnmarshalText(text []byte) error {
	switch string(text) {
	case "low":
		*r = RiskLow
	case "medium":
		*r = RiskMedium
	case "high":
		*r = RiskHigh
	default:
		return fmt.Errorf("invalid risk level: %q", string(text))
	}
	return nil
}

// ClassifyRisk tiers a score: strictly above high is high, strictly above medium is medium
func ClassifyRisk(score, highThreshold, mediumThreshold float64) RiskLevel {
	switch {
	case score > highThreshold:
		return RiskHigh
	case score > mediumThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}
