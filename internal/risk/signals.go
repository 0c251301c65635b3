package risk

import "github.com/noah-isme/wellbeing-api/internal/models"

// HistoryDepth is the maximum number of prior submissions any signal looks at.
const HistoryDepth = 3

// Signals are the historical inputs derived from a user's prior submissions.
type Signals struct {
	LastIntensity                         *int `json:"lastIntensity,omitempty"`
	SameDomainLastTwoWeeks                bool `json:"sameDomainLastTwoWeeks"`
	SameDomainLastThreeWeeksHighIntensity bool `json:"sameDomainLastThreeWeeksHighIntensity"`
	PriorCount                            int  `json:"priorCount"`
}

// Observation is the part of the current submission the signals compare against.
type Observation struct {
	Domain    models.Domain
	Intensity int
}

// DeriveSignals computes historical signals from priors ordered most recent first.
// Missing history degrades each signal to its zero value.
func DeriveSignals(priors []models.Submission, current Observation) Signals {
	if len(priors) > HistoryDepth {
		priors = priors[:HistoryDepth]
	}
	signals := Signals{PriorCount: len(priors)}
	if len(priors) == 0 {
		return signals
	}

	last := priors[0].Intensity
	signals.LastIntensity = &last

	if len(priors) >= 2 {
		signals.SameDomainLastTwoWeeks = priors[0].PrimaryDomain == priors[1].PrimaryDomain
	}

	if len(priors) == HistoryDepth && current.Intensity >= models.HighIntensityThreshold {
		domain := priors[0].PrimaryDomain
		sustained := current.Domain == domain
		for _, prior := range priors {
			if prior.PrimaryDomain != domain || !prior.HighIntensity() {
				sustained = false
				break
			}
		}
		signals.SameDomainLastThreeWeeksHighIntensity = sustained
	}

	return signals
}
