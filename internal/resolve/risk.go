package resolve

import (
	"mintwatch/internal/domain"
	"mintwatch/internal/provider"
)

// Risk level buckets over the numeric rug-risk score.
const (
	RiskUnscored = "❓ Unknown"
	RiskExtreme  = "🔴 EXTREME RISK"
	RiskHigh     = "🟠 HIGH RISK"
	RiskModerate = "🟡 MODERATE RISK"
	RiskLow      = "🟢 LOW RISK"
)

// maxRiskReasons caps how many report entries are carried through.
const maxRiskReasons = 5

// riskLevel buckets a numeric score; a missing score is unscored
// rather than assumed dangerous.
func riskLevel(score *int64) string {
	if score == nil {
		return RiskUnscored
	}
	switch s := *score; {
	case s > 8000:
		return RiskExtreme
	case s > 5000:
		return RiskHigh
	case s > 2000:
		return RiskModerate
	}
	return RiskLow
}

// riskReasons converts the top report entries to snapshot form,
// tagging each with its severity marker.
func riskReasons(risks []provider.RugRisk) []domain.RiskReason {
	var out []domain.RiskReason
	for _, r := range risks {
		if len(out) == maxRiskReasons {
			break
		}
		name := r.Name
		if name == "" {
			name = r.Description
		}
		if name == "" {
			name = "Unknown"
		}
		out = append(out, domain.RiskReason{
			Name:     name,
			Severity: severityMarker(r.Level),
		})
	}
	return out
}

func severityMarker(level string) string {
	switch level {
	case "danger":
		return "🔴"
	case "warn":
		return "🟡"
	}
	return "⚪"
}
