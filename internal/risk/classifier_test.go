package risk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/wellbeing-api/internal/models"
)

func TestKeywordClassifier(t *testing.T) {
	classifier := NewKeywordClassifier()
	cases := map[string]models.SelfHarmIndicator{
		"":                                          models.SelfHarmNone,
		"Exams are stressful but I'm coping":        models.SelfHarmNone,
		"I hurt my ankle at   PRACTICE":             models.SelfHarmNone,
		"sometimes I want to HURT   myself":         models.SelfHarmSometimes,
		"they'd be better off without me":           models.SelfHarmSometimes,
		"I want to die and I think about self-harm": models.SelfHarmOften,
	}
	for text, want := range cases {
		got, err := classifier.Classify(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, want, got, text)
	}
}
