package store

import (
	"context"
	"encoding/json"
	"time"

	"lostaf-cli/internal/model"
)

// SaveDraft persists an unsubmitted report so a failed submission (or a
// closed terminal) never loses entered form state.
func (s Store) SaveDraft(ctx context.Context, d model.Draft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.SaveSnapshot(ctx, keyDraft, string(b), time.Now())
}

// LoadDraft returns the stored draft, if any.
func (s Store) LoadDraft(ctx context.Context) (*model.Draft, time.Time, error) {
	payload, at, ok, err := s.LoadSnapshot(ctx, keyDraft)
	if err != nil || !ok {
		return nil, time.Time{}, err
	}
	var d model.Draft
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		return nil, time.Time{}, err
	}
	return &d, at, nil
}

// ClearDraft removes the stored draft after a successful submission.
func (s Store) ClearDraft(ctx context.Context) error {
	return s.DeleteSnapshot(ctx, keyDraft)
}
