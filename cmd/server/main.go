package main

import (
	"CaseNotes/internal/config"
	"CaseNotes/internal/handlers"
	"CaseNotes/internal/middleware"
	"CaseNotes/internal/repo"
	"CaseNotes/internal/service"
	"CaseNotes/internal/storage"
	"net/http"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	fileStore, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		sugar.Fatalw("failed to initialize file storage", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	noteRepo := repo.NewCaseNoteRepository(gormDB)
	attachmentRepo := repo.NewAttachmentRepository(gormDB)

	maxBytes := int64(cfg.UploadMaxMB) * 1024 * 1024
	userService := service.NewUserService(userRepo)
	noteService := service.NewCaseNoteService(noteRepo, fileStore, sugar)
	attachmentService := service.NewAttachmentService(noteRepo, attachmentRepo, fileStore, maxBytes, sugar)

	h := handlers.NewHandler(userService, noteService, attachmentService, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"UploadDir", cfg.UploadDir,
		"UploadMaxMB", cfg.UploadMaxMB,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
