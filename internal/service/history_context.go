package service

import (
	"context"

	"github.com/noah-isme/wellbeing-api/internal/models"
	"github.com/noah-isme/wellbeing-api/internal/risk"
)

type submissionHistoryReader interface {
	RecentSubmissionsByUser(ctx context.Context, userID string, limit int) ([]models.Submission, error)
}

// HistoryContextBuilder reads a bounded slice of a user's history and derives scoring signals.
type HistoryContextBuilder struct {
	store submissionHistoryReader
}

// NewHistoryContextBuilder constructs the builder.
func NewHistoryContextBuilder(store submissionHistoryReader) *HistoryContextBuilder {
	return &HistoryContextBuilder{store: store}
}

// Build returns signals for the current observation. It must run before the current
// submission is stored. On a read error the returned signals are the zero value and the
// error is returned for logging; callers should still score.
func (b *HistoryContextBuilder) Build(ctx context.Context, userID string, current risk.Observation) (risk.Signals, error) {
	if b == nil || b.store == nil || userID == "" {
		return risk.Signals{}, nil
	}
	priors, err := b.store.RecentSubmissionsByUser(ctx, userID, risk.HistoryDepth)
	if err != nil {
		return risk.Signals{}, err
	}
	return risk.DeriveSignals(priors, current), nil
}
