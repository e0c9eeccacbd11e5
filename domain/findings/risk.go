package findings

// Rating bounds for likelihood and severity.
const (
	MinRating = 1
	MaxRating = 5
)

// Tier thresholds on the likelihood x severity score.
const (
	criticalThreshold = 17
	highThreshold     = 10
	mediumThreshold   = 5
)

// RiskAssessment is the derived risk of a likelihood/severity pair.
type RiskAssessment struct {
	Score int
	Level RiskLevel
}

// CalculateRisk scores a likelihood/severity pair and assigns its tier.
//
// Precondition: both inputs are in [MinRating, MaxRating]. Callers clamp
// before calling; out-of-range input is not checked here.
func CalculateRisk(likelihood, severity int) RiskAssessment {
	score := likelihood * severity
	return RiskAssessment{Score: score, Level: LevelForScore(score)}
}

// LevelForScore maps a score to its tier.
func LevelForScore(score int) RiskLevel {
	switch {
	case score >= criticalThreshold:
		return RiskCritical
	case score >= highThreshold:
		return RiskHigh
	case score >= mediumThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ClampRating forces a rating into [MinRating, MaxRating].
func ClampRating(v int) int {
	if v < MinRating {
		return MinRating
	}
	if v > MaxRating {
		return MaxRating
	}
	return v
}

// IsValidRating reports whether v is within [MinRating, MaxRating].
func IsValidRating(v int) bool {
	return v >= MinRating && v <= MaxRating
}
