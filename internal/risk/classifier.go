package risk

import (
	"context"
	"strings"

	"github.com/noah-isme/wellbeing-api/internal/models"
)

// TextClassifier infers the self-harm indicator from a free-text reflection.
type TextClassifier interface {
	Classify(ctx context.Context, text string) (models.SelfHarmIndicator, error)
}

// KeywordClassifier is a phrase-matching TextClassifier used when no external classifier is configured.
type KeywordClassifier struct {
	often     []string
	sometimes []string
}

// NewKeywordClassifier builds a classifier with the default phrase lists.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		often: []string{
			"want to die",
			"kill myself",
			"end my life",
			"every day i hurt myself",
			"no reason to live",
		},
		sometimes: []string{
			"hurt myself",
			"harm myself",
			"self harm",
			"self-harm",
			"cutting",
			"better off without me",
			"disappear forever",
		},
	}
}

// Classify returns often, sometimes, or none. The most severe match wins.
func (k *KeywordClassifier) Classify(_ context.Context, text string) (models.SelfHarmIndicator, error) {
	normalised := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if normalised == "" {
		return models.SelfHarmNone, nil
	}
	for _, phrase := range k.often {
		if strings.Contains(normalised, phrase) {
			return models.SelfHarmOften, nil
		}
	}
	for _, phrase := range k.sometimes {
		if strings.Contains(normalised, phrase) {
			return models.SelfHarmSometimes, nil
		}
	}
	return models.SelfHarmNone, nil
}
