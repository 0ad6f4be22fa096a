package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"notes-api/internal/converter"
	"notes-api/internal/model"
	svc "notes-api/internal/service"
)

// maxBodyBytes ограничение на размер тела запроса
const maxBodyBytes = 1 << 20

// searchParamNames допустимые query-параметры списка заметок
var searchParamNames = []string{"title", "content", "page", "size", "orderBy"}

// Handler реализует REST API заметок поверх NoteService
type Handler struct {
	noteService svc.NoteService
	logger      *zap.Logger
}

// NewHandler создает новый HTTP handler
func NewHandler(noteService svc.NoteService, logger *zap.Logger) *Handler {
	return &Handler{
		noteService: noteService,
		logger:      logger,
	}
}

// Routes регистрирует маршруты API
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/notes", h.CreateNote)
	mux.HandleFunc("GET /api/notes", h.ListNotes)
	mux.HandleFunc("GET /api/notes/{id}", h.GetNote)
	mux.HandleFunc("PUT /api/notes/{id}", h.UpdateNote)
	mux.HandleFunc("DELETE /api/notes/{id}", h.DeleteNote)

	return mux
}

type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type updateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// CreateNote POST /api/notes
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	note, err := h.noteService.Create(r.Context(), model.CreateNoteInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, converter.ModelToResponse(note))
}

// GetNote GET /api/notes/{id}
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	note, err := h.noteService.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, converter.ModelToResponse(note))
}

// ListNotes GET /api/notes
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	params, err := searchParams(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	page, err := h.noteService.List(r.Context(), params)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, converter.PageToResponse(page))
}

// UpdateNote PUT /api/notes/{id}
// Переданные поля заменяются, отсутствующие остаются без изменений.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req updateNoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	note, err := h.noteService.Update(r.Context(), id, model.UpdateNoteInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, converter.ModelToResponse(note))
}

// DeleteNote DELETE /api/notes/{id}
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.noteService.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, svc.ValidationError(fmt.Sprintf("Path parameter 'id' must be an integer, got '%s'", raw))
	}

	return id, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return svc.ValidationError("Request body must not be empty")
		case errors.As(err, &maxErr):
			return svc.ValidationError(fmt.Sprintf("Request body must not exceed %d bytes", maxErr.Limit))
		default:
			return svc.ValidationError(fmt.Sprintf("Malformed JSON body: %v", err))
		}
	}

	if dec.More() {
		return svc.ValidationError("Malformed JSON body: unexpected data after the JSON object")
	}

	return nil
}

// searchParams собирает параметры поиска из query string.
// Отсутствующий параметр остается nil, пустой передается как есть.
func searchParams(r *http.Request) (model.SearchParams, error) {
	q := r.URL.Query()

	for name, values := range q {
		if !slices.Contains(searchParamNames, name) {
			return model.SearchParams{}, svc.ValidationError(fmt.Sprintf(
				"Invalid query parameter '%s'. %s", name, paramsHint()))
		}
		if len(values) > 1 {
			return model.SearchParams{}, svc.ValidationError("Invalid query parameters. " + paramsHint())
		}
	}

	lookup := func(name string) *string {
		if !q.Has(name) {
			return nil
		}
		value := q.Get(name)
		return &value
	}

	return model.SearchParams{
		Title:   lookup("title"),
		Content: lookup("content"),
		Page:    lookup("page"),
		Size:    lookup("size"),
		OrderBy: lookup("orderBy"),
	}, nil
}

func paramsHint() string {
	return "Valid parameters: " + strings.Join(searchParamNames, ", ")
}
