// Package risk holds the deterministic, additive rules that classify a single check-in.
//
// Everything here is pure: no I/O, no clock, no shared state. Score is total over its input
// domain and is safe to call inline on the submission write path.
package risk

import (
	"fmt"
	"strings"

	"github.com/noah-isme/wellbeing-api/internal/models"
)

// NoRiskExplanation is returned when no rule fires.
const NoRiskExplanation = "No risk factors detected."

// Input is everything the scorer needs for one submission.
type Input struct {
	Intensity int
	SelfHarm  models.SelfHarmIndicator
	Signals   Signals
}

// Result is the explainable outcome of scoring.
type Result struct {
	Score       int                  `json:"score"`
	Tier        models.RiskTier      `json:"tier"`
	HighRisk    bool                 `json:"highRisk"`
	Triggers    []models.TriggerCode `json:"triggerCodes"`
	Explanation string               `json:"explanation"`
}

type rule struct {
	code    models.TriggerCode
	points  int
	clause  string
	applies func(Input) bool
}

// rules are evaluated in order; the order is also the order of triggers and explanation clauses.
var rules = []rule{
	{
		code:    models.TriggerSelfHarmSometimes,
		points:  5,
		clause:  "self-harm thoughts reported as sometimes",
		applies: func(in Input) bool { return in.SelfHarm == models.SelfHarmSometimes },
	},
	{
		code:    models.TriggerSelfHarmOften,
		points:  8,
		clause:  "self-harm thoughts reported as often",
		applies: func(in Input) bool { return in.SelfHarm == models.SelfHarmOften },
	},
	{
		code:    models.TriggerHighIntensity,
		points:  2,
		clause:  fmt.Sprintf("current intensity is %d or higher", models.HighIntensityThreshold),
		applies: func(in Input) bool { return in.Intensity >= models.HighIntensityThreshold },
	},
	{
		code:   models.TriggerIntensitySpike,
		points: 2,
		clause: "intensity rose by 2 or more since the previous check-in",
		applies: func(in Input) bool {
			return in.Signals.LastIntensity != nil && in.Intensity-*in.Signals.LastIntensity >= 2
		},
	},
	{
		code:    models.TriggerRepeatedDomainSpike,
		points:  3,
		clause:  "the same domain has stayed at high intensity for four consecutive check-ins",
		applies: func(in Input) bool { return in.Signals.SameDomainLastThreeWeeksHighIntensity },
	},
}

// Score applies every rule to the input and maps the summed score to a tier.
func Score(in Input) Result {
	result := Result{Triggers: []models.TriggerCode{}}
	clauses := make([]string, 0, len(rules))
	for _, r := range rules {
		if !r.applies(in) {
			continue
		}
		result.Score += r.points
		result.Triggers = append(result.Triggers, r.code)
		clauses = append(clauses, fmt.Sprintf("%s (+%d)", r.clause, r.points))
	}

	result.Tier = Tier(result.Score, in.SelfHarm)
	result.HighRisk = result.Tier >= models.RiskTierElevated
	if len(clauses) == 0 {
		result.Explanation = NoRiskExplanation
	} else {
		result.Explanation = fmt.Sprintf("Score %d: %s.", result.Score, strings.Join(clauses, "; "))
	}
	return result
}

// Tier maps a score and self-harm indicator to a risk tier. The first matching branch wins.
// Scores 0-3 are tier 0, 4-6 tier 1, 7-9 tier 2 and 10 or more tier 3; "often" forces tier 3
// and "sometimes" lifts to at least tier 2. A lone high-intensity check-in scores 2 and is
// therefore tier 0 even though its trigger codes are non-empty.
func Tier(score int, selfHarm models.SelfHarmIndicator) models.RiskTier {
	switch {
	case score >= 10 || selfHarm == models.SelfHarmOften:
		return models.RiskTierHigh
	case score >= 7 || selfHarm == models.SelfHarmSometimes:
		return models.RiskTierElevated
	case score >= 4:
		return models.RiskTierLow
	default:
		return models.RiskTierNone
	}
}
