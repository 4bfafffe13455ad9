package handlers

import (
	"CaseNotes/internal/config"
	"CaseNotes/internal/middleware"
	"CaseNotes/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	noteService *service.CaseNoteService,
	attachmentService *service.AttachmentService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	userHandler := NewUserHandler(userService, logger, config)
	noteHandler := NewCaseNoteHandler(noteService, logger)
	attachmentHandler := NewAttachmentHandler(attachmentService, logger, config)

	// Auth routes
	r.Post("/api/auth/register", userHandler.Register)
	r.Post("/api/auth/login", userHandler.Login)
	r.Post("/api/auth/logout", userHandler.Logout)
	r.Get("/api/auth/user", userHandler.Current)

	// Case note routes
	r.Get("/api/case-notes", noteHandler.List)
	r.Post("/api/case-notes", noteHandler.Create)
	r.Get("/api/case-notes/{id}", noteHandler.Get)
	r.Put("/api/case-notes/{id}", noteHandler.Update)
	r.Delete("/api/case-notes/{id}", noteHandler.Delete)

	// Attachment routes
	r.Post("/api/case-notes/{id}/attachments", attachmentHandler.Upload)
	r.Get("/api/case-notes/{id}/attachments", attachmentHandler.ListFor)
	r.Get("/api/attachments/{id}/download", attachmentHandler.Download)
	r.Delete("/api/attachments/{id}", attachmentHandler.Delete)

	// Dashboard
	r.Get("/api/dashboard/stats", noteHandler.Stats)

	return &Handler{Router: r}
}
