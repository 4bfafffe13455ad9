package handlers

import (
	"CaseNotes/internal/config"
	"CaseNotes/internal/service"
	"io"
	"mime"
	"net/http"

	"go.uber.org/zap"
)

// максимум файлов в одном запросе загрузки
const maxFilesPerUpload = 5

// AttachmentHandler обслуживает загрузку, скачивание и удаление вложений.
type AttachmentHandler struct {
	AttachmentService *service.AttachmentService
	Logger            *zap.SugaredLogger
	Config            *config.Config
}

func NewAttachmentHandler(attachmentService *service.AttachmentService, logger *zap.SugaredLogger, cfg *config.Config) *AttachmentHandler {
	return &AttachmentHandler{AttachmentService: attachmentService, Logger: logger, Config: cfg}
}

// Upload принимает multipart-поле files (до 5 файлов) и создаёт вложения
// для записи. Разрешено только автору записи.
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	caseNoteID, ok := noteIDFromRequest(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}

	// лимит общего тела запроса
	perFile := int64(h.Config.UploadMaxMB) * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxFilesPerUpload*perFile+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.Logger.Warnw("Upload: invalid multipart form", "error", err)
		writeMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeMessage(w, http.StatusBadRequest, "no files provided")
		return
	}
	if len(headers) > maxFilesPerUpload {
		writeMessage(w, http.StatusBadRequest, "too many files (max 5)")
		return
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			h.Logger.Warnw("Upload: failed to open multipart file", "file", fh.Filename, "error", err)
			writeMessage(w, http.StatusBadRequest, "failed to read file")
			return
		}
		defer f.Close()
		files = append(files, service.UploadFile{
			OriginalName: fh.Filename,
			MimeType:     fh.Header.Get("Content-Type"),
			Size:         fh.Size,
			Content:      f,
		})
	}

	res, err := h.AttachmentService.Upload(r.Context(), userID, caseNoteID, files)
	if err != nil {
		writeServiceError(w, h.Logger, "Upload", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// ListFor отдаёт вложения одной записи.
func (h *AttachmentHandler) ListFor(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	caseNoteID, ok := noteIDFromRequest(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}

	atts, err := h.AttachmentService.ListFor(r.Context(), caseNoteID)
	if err != nil {
		writeServiceError(w, h.Logger, "ListFor", err)
		return
	}
	writeJSON(w, http.StatusOK, atts)
}

// Download отдаёт байты вложения. Авторство проверяется через родительскую
// запись до открытия файла.
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := noteIDFromRequest(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}

	att, rc, err := h.AttachmentService.Open(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, h.Logger, "Download", err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", att.MimeType)
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": att.OriginalName}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Warnw("Download: failed to stream file", "attachment_id", att.ID, "error", err)
	}
}

// Delete удаляет вложение (строку и байты); разрешено только автору записи.
func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := noteIDFromRequest(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}

	if err := h.AttachmentService.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, h.Logger, "Delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
