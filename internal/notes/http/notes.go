package http

import (
	"net/http"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/aussiebroadwan/notes/pkg/notesdk"
)

type NotesHandler struct {
	NotesService *service.NotesService
}

func toNoteResponse(n domain.Note) notesdk.Note {
	return notesdk.Note{
		ID:         n.ID,
		UserID:     n.OwnerID,
		Title:      n.Title,
		Content:    n.Content,
		CreatedAt:  n.CreatedAt,
		LastEdited: n.LastEdited,
	}
}

// HandleList returns the caller's notes, most recently edited first.
//
//	@Summary		List notes
//	@Tags			Notes
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		notesdk.Note
//	@Failure		401	{object}	notesdk.ErrorResponse
//	@Failure		500	{object}	notesdk.ErrorResponse
//	@Router			/api/notes [get].
func (h *NotesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := httpx.UserIDFromContext(ctx)

	notes, err := h.NotesService.List(ctx, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]notesdk.Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate adds a note.
//
//	@Summary		Create note
//	@Tags			Notes
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			X-CSRF-Token	header		string				true	"CSRF token"
//	@Param			request			body		notesdk.NoteRequest	true	"Note"
//	@Success		201				{object}	notesdk.Note
//	@Failure		400				{object}	notesdk.ErrorResponse	"Title and content are required"
//	@Failure		401				{object}	notesdk.ErrorResponse
//	@Router			/api/notes [post].
func (h *NotesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := httpx.UserIDFromContext(ctx)

	var req notesdk.NoteRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	n, err := h.NotesService.Create(ctx, userID, service.NoteInput{Title: req.Title, Content: req.Content})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toNoteResponse(n))
}

// HandleGet returns one note.
//
//	@Summary		Get note
//	@Tags			Notes
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Note ID"
//	@Success		200	{object}	notesdk.Note
//	@Failure		401	{object}	notesdk.ErrorResponse
//	@Failure		404	{object}	notesdk.ErrorResponse
//	@Router			/api/notes/{id} [get].
func (h *NotesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := httpx.UserIDFromContext(ctx)

	n, err := h.NotesService.Get(ctx, userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toNoteResponse(n))
}

// HandleUpdate replaces a note's title and content.
//
//	@Summary		Update note
//	@Tags			Notes
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id				path		string				true	"Note ID"
//	@Param			X-CSRF-Token	header		string				true	"CSRF token"
//	@Param			request			body		notesdk.NoteRequest	true	"Note"
//	@Success		200				{object}	notesdk.Note
//	@Failure		400				{object}	notesdk.ErrorResponse
//	@Failure		401				{object}	notesdk.ErrorResponse
//	@Failure		404				{object}	notesdk.ErrorResponse
//	@Router			/api/notes/{id} [put].
func (h *NotesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := httpx.UserIDFromContext(ctx)

	var req notesdk.NoteRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	n, err := h.NotesService.Update(ctx, userID, r.PathValue("id"), service.NoteInput{Title: req.Title, Content: req.Content})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toNoteResponse(n))
}

// HandleDelete removes a note.
//
//	@Summary		Delete note
//	@Tags			Notes
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id				path		string	true	"Note ID"
//	@Param			X-CSRF-Token	header		string	true	"CSRF token"
//	@Success		200				{object}	notesdk.MessageResponse
//	@Failure		401				{object}	notesdk.ErrorResponse
//	@Failure		404				{object}	notesdk.ErrorResponse
//	@Router			/api/notes/{id} [delete].
func (h *NotesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := httpx.UserIDFromContext(ctx)

	if err := h.NotesService.Delete(ctx, userID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, notesdk.MessageResponse{Message: "Note deleted"})
}
