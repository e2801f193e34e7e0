package sqlite

import (
	"context"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
	"github.com/aussiebroadwan/notes/internal/notes/store"
	"github.com/aussiebroadwan/notes/internal/notes/store/drivers/sqlite/gen"
)

type notesRepo struct {
	q *gen.Queries
}

func (r *notesRepo) ListNotesByOwner(ctx context.Context, ownerID string) ([]domain.Note, error) {
	rows, err := r.q.ListNotesByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Note, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapNote(row))
	}
	return out, nil
}

func (r *notesRepo) GetNote(ctx context.Context, ownerID, noteID string) (domain.Note, error) {
	row, err := r.q.GetNote(ctx, gen.GetNoteParams{ID: noteID, OwnerID: ownerID})
	if err != nil {
		return domain.Note{}, mapNotFound(err)
	}
	return mapNote(row), nil
}

func (r *notesRepo) CreateNote(ctx context.Context, n domain.Note) error {
	return r.q.CreateNote(ctx, gen.CreateNoteParams{
		ID:         n.ID,
		OwnerID:    n.OwnerID,
		Title:      n.Title,
		Content:    n.Content,
		CreatedAt:  toMillis(n.CreatedAt),
		LastEdited: toMillis(n.LastEdited),
	})
}

func (r *notesRepo) UpdateNote(ctx context.Context, n domain.Note) (domain.Note, error) {
	row, err := r.q.UpdateNote(ctx, gen.UpdateNoteParams{
		Title:      n.Title,
		Content:    n.Content,
		LastEdited: toMillis(n.LastEdited),
		ID:         n.ID,
		OwnerID:    n.OwnerID,
	})
	if err != nil {
		return domain.Note{}, mapNotFound(err)
	}
	return mapNote(row), nil
}

func (r *notesRepo) DeleteNote(ctx context.Context, ownerID, noteID string) error {
	n, err := r.q.DeleteNote(ctx, gen.DeleteNoteParams{ID: noteID, OwnerID: ownerID})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
