package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
	"github.com/aussiebroadwan/notes/internal/notes/store"
	"github.com/aussiebroadwan/notes/pkg/idx"
)

// NotesService is per-owner CRUD. A note that exists but belongs to someone
// else is reported as ErrNotFound.
type NotesService struct {
	Store store.Store
	Now   func() time.Time
}

type NoteInput struct {
	Title   string
	Content string
}

func (in NoteInput) validate() error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return &ValidationError{Message: MsgNoteFieldsRequired}
	}
	return nil
}

func (s *NotesService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *NotesService) List(ctx context.Context, ownerID string) ([]domain.Note, error) {
	return s.Store.Notes().ListNotesByOwner(ctx, ownerID)
}

func (s *NotesService) Get(ctx context.Context, ownerID, noteID string) (domain.Note, error) {
	if !idx.Valid(noteID) {
		return domain.Note{}, ErrNotFound
	}
	n, err := s.Store.Notes().GetNote(ctx, ownerID, noteID)
	return n, mapNotFound(err)
}

func (s *NotesService) Create(ctx context.Context, ownerID string, in NoteInput) (domain.Note, error) {
	if err := in.validate(); err != nil {
		return domain.Note{}, err
	}

	now := s.now()
	n := domain.Note{
		ID:         idx.NewAt(now).String(),
		OwnerID:    ownerID,
		Title:      in.Title,
		Content:    in.Content,
		CreatedAt:  now,
		LastEdited: now,
	}
	if err := s.Store.Notes().CreateNote(ctx, n); err != nil {
		return domain.Note{}, err
	}
	return n, nil
}

func (s *NotesService) Update(ctx context.Context, ownerID, noteID string, in NoteInput) (domain.Note, error) {
	if !idx.Valid(noteID) {
		return domain.Note{}, ErrNotFound
	}
	if err := in.validate(); err != nil {
		return domain.Note{}, err
	}

	n, err := s.Store.Notes().UpdateNote(ctx, domain.Note{
		ID:         noteID,
		OwnerID:    ownerID,
		Title:      in.Title,
		Content:    in.Content,
		LastEdited: s.now(),
	})
	return n, mapNotFound(err)
}

func (s *NotesService) Delete(ctx context.Context, ownerID, noteID string) error {
	if !idx.Valid(noteID) {
		return ErrNotFound
	}
	return mapNotFound(s.Store.Notes().DeleteNote(ctx, ownerID, noteID))
}

func mapNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
