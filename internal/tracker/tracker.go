// Package tracker flags sent outreach that has gone unanswered.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/venturescout/outreach-cli/internal/model"
)

// Store is the persistence surface the tracker needs.
type Store interface {
	FlagFollowups(ctx context.Context, sentBefore time.Time) (int, error)
	CountNeedsFollowup(ctx context.Context) (int, error)
	OutreachStatusCounts(ctx context.Context) (map[string]int, error)
	AppendAudit(ctx context.Context, e model.AuditEntry) error
}

// Summary reports the result of one tracker pass.
type Summary struct {
	NewlyFlagged  int            `json:"newly_flagged"`
	TotalFollowup int            `json:"total_followup"`
	ByStatus      map[string]int `json:"by_status"`
}

// Tracker marks outreach rows sent more than afterDays ago as needing a
// follow-up.
type Tracker struct {
	afterDays int
}

// New creates a tracker. afterDays defaults to 3 when unset.
func New(afterDays int) *Tracker {
	if afterDays <= 0 {
		afterDays = 3
	}
	return &Tracker{afterDays: afterDays}
}

// Run flags stale outreach and returns pipeline summary counts.
func (t *Tracker) Run(ctx context.Context, st Store) (*Summary, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(t.afterDays) * 24 * time.Hour)

	flagged, err := st.FlagFollowups(ctx, cutoff)
	if err != nil {
		return nil, eris.Wrap(err, "tracker: flag followups")
	}
	total, err := st.CountNeedsFollowup(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "tracker: count followups")
	}
	byStatus, err := st.OutreachStatusCounts(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "tracker: status counts")
	}

	summary := &Summary{NewlyFlagged: flagged, TotalFollowup: total, ByStatus: byStatus}
	detail := fmt.Sprintf("Flagged %d new follow-ups, %d total needing follow-up", flagged, total)
	if err := st.AppendAudit(ctx, model.AuditEntry{
		Component: "tracker", Action: "complete", Detail: detail, Outcome: model.OutcomeSuccess,
	}); err != nil {
		zap.L().Warn("audit append failed", zap.Error(err))
	}
	zap.L().Info("tracker pass complete",
		zap.Int("newly_flagged", flagged),
		zap.Int("total_followup", total))
	return summary, nil
}
