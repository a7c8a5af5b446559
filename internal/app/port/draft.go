package port

import (
	"context"

	"estate_addendum/internal/domain/entity"
)

// DraftStore persists the working EstateDocument as a single blob keyed by
// a draft identifier. Round-trips the exact document shape.
type DraftStore interface {
	SaveDraft(ctx context.Context, draftID string, doc *entity.EstateDocument) error
	LoadDraft(ctx context.Context, draftID string) (*entity.EstateDocument, error)
}
