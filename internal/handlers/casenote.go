package handlers

import (
	"CaseNotes/internal/model"
	"CaseNotes/internal/repo"
	"CaseNotes/internal/service"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CaseNoteHandler обслуживает CRUD записей и счётчики дашборда.
type CaseNoteHandler struct {
	NoteService *service.CaseNoteService
	Logger      *zap.SugaredLogger
}

func NewCaseNoteHandler(noteService *service.CaseNoteService, logger *zap.SugaredLogger) *CaseNoteHandler {
	return &CaseNoteHandler{NoteService: noteService, Logger: logger}
}

// listResponse — страница записей и общее число совпадений фильтра.
type listResponse struct {
	Notes []model.CaseNoteWithDetails `json:"notes"`
	Total int64                       `json:"total"`
}

func noteIDFromRequest(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// List отдаёт страницу записей по фильтру из query-параметров.
// Чтение доступно любому аутентифицированному соцработнику.
func (h *CaseNoteHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	q := r.URL.Query()
	f := repo.CaseNoteFilter{
		ProgramArea: q.Get("programArea"),
		Search:      q.Get("search"),
		SortBy:      repo.ParseSortKey(q.Get("sortBy")),
		Limit:       parseIntDefault(q.Get("limit"), 10),
		Offset:      parseIntDefault(q.Get("offset"), 0),
	}
	if v := q.Get("startDate"); v != "" {
		if t, err := parseDate(v); err == nil {
			f.StartDate = &t
		}
	}
	if v := q.Get("endDate"); v != "" {
		if t, err := parseDate(v); err == nil {
			f.EndDate = &t
		}
	}

	notes, total, err := h.NoteService.List(r.Context(), f)
	if err != nil {
		writeServiceError(w, h.Logger, "List", err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Notes: notes, Total: total})
}

// Get отдаёт одну запись с автором и вложениями.
func (h *CaseNoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	id, ok := noteIDFromRequest(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}

	note, err := h.NoteService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.Logger, "Get", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

type createNoteRequest struct {
	ProgramArea         string `json:"programArea"`
	TranslationProvided *bool  `json:"translationProvided"`
	Narrative           string `json:"narrative"`
}

// Create создаёт запись; автор берётся из сессии, не из тела.
func (h *CaseNoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Create: invalid request body", "error", err)
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	note, err := h.NoteService.Create(r.Context(), userID, service.CreateCaseNoteInput{
		ProgramArea:         req.ProgramArea,
		TranslationProvided: req.TranslationProvided,
		Narrative:           req.Narrative,
	})
	if err != nil {
		writeServiceError(w, h.Logger, "Create", err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

type updateNoteRequest struct {
	ProgramArea         *string `json:"programArea"`
	TranslationProvided *bool   `json:"translationProvided"`
	Narrative           *string `json:"narrative"`
}

// Update частично обновляет запись; разрешено только её автору.
func (h *CaseNoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := noteIDFromRequest(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}

	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Update: invalid request body", "error", err)
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	note, err := h.NoteService.Update(r.Context(), userID, id, service.UpdateCaseNoteInput{
		ProgramArea:         req.ProgramArea,
		TranslationProvided: req.TranslationProvided,
		Narrative:           req.Narrative,
	})
	if err != nil {
		writeServiceError(w, h.Logger, "Update", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Delete удаляет запись вместе с вложениями; разрешено только её автору.
func (h *CaseNoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := noteIDFromRequest(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}

	if err := h.NoteService.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, h.Logger, "Delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats отдаёт счётчики дашборда в рамках текущего соцработника.
func (h *CaseNoteHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	stats, err := h.NoteService.Stats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.Logger, "Stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
