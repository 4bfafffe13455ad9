package service

import (
	"CaseNotes/internal/model"
	"CaseNotes/internal/repo"
	"CaseNotes/internal/storage"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MIME-типы, разрешённые для вложений.
var allowedMimeTypes = map[string]struct{}{
	"application/pdf": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// AttachmentService управляет жизненным циклом вложений: валидация, запись
// байтов, строки метаданных и проверка авторства через родительскую запись.
type AttachmentService struct {
	notes    repo.CaseNoteRepository
	atts     repo.AttachmentRepository
	files    storage.FileStore
	maxBytes int64
	logger   *zap.SugaredLogger
}

func NewAttachmentService(
	notes repo.CaseNoteRepository,
	atts repo.AttachmentRepository,
	files storage.FileStore,
	maxBytes int64,
	logger *zap.SugaredLogger,
) *AttachmentService {
	return &AttachmentService{notes: notes, atts: atts, files: files, maxBytes: maxBytes, logger: logger}
}

// UploadFile — один входящий файл multipart-запроса.
type UploadFile struct {
	OriginalName string
	MimeType     string
	Size         int64
	Content      io.Reader
}

// RejectedFile — файл, не прошедший валидацию, и причина отказа.
type RejectedFile struct {
	OriginalName string `json:"originalName"`
	Reason       string `json:"reason"`
}

// UploadResult — исход загрузки по каждому файлу в порядке поступления.
type UploadResult struct {
	Created  []model.Attachment `json:"attachments"`
	Rejected []RejectedFile     `json:"rejected,omitempty"`
}

// validate возвращает причину отказа или пустую строку.
func (s *AttachmentService) validate(f UploadFile) string {
	if _, ok := allowedMimeTypes[f.MimeType]; !ok {
		return fmt.Sprintf("file type %q is not allowed", f.MimeType)
	}
	if f.Size > s.maxBytes {
		return fmt.Sprintf("file exceeds maximum size of %d bytes", s.maxBytes)
	}
	return ""
}

// authorizeParent сверяет автора родительской записи с действующей личностью.
func (s *AttachmentService) authorizeParent(ctx context.Context, actorID string, caseNoteID int64) error {
	note, err := s.notes.GetByID(ctx, caseNoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if note.CaseworkerID != actorID {
		return ErrForbidden
	}
	return nil
}

// Upload сохраняет валидные файлы и создаёт по строке метаданных на каждый.
// Невалидные файлы не пишутся вовсе и возвращаются в Rejected. Байты пишутся
// до строки: упавший insert оставляет максимум осиротевший файл, но не
// строку без файла.
func (s *AttachmentService) Upload(ctx context.Context, actorID string, caseNoteID int64, files []UploadFile) (*UploadResult, error) {
	if err := s.authorizeParent(ctx, actorID, caseNoteID); err != nil {
		return nil, err
	}

	res := &UploadResult{Created: []model.Attachment{}}
	for _, f := range files {
		if reason := s.validate(f); reason != "" {
			res.Rejected = append(res.Rejected, RejectedFile{OriginalName: f.OriginalName, Reason: reason})
			continue
		}

		// имя в хранилище генерируется сервером и не зависит от имени файла
		storedName := uuid.NewString() + filepath.Ext(filepath.Base(f.OriginalName))
		written, err := s.files.Save(storedName, io.LimitReader(f.Content, s.maxBytes+1))
		if err != nil {
			return nil, err
		}
		if written > s.maxBytes {
			// заявленный размер оказался меньше фактического
			_ = s.files.Remove(storedName)
			res.Rejected = append(res.Rejected, RejectedFile{
				OriginalName: f.OriginalName,
				Reason:       fmt.Sprintf("file exceeds maximum size of %d bytes", s.maxBytes),
			})
			continue
		}

		att := &model.Attachment{
			CaseNoteID:   caseNoteID,
			FileName:     storedName,
			OriginalName: f.OriginalName,
			MimeType:     f.MimeType,
			FileSize:     written,
		}
		if err := s.atts.Create(ctx, att); err != nil {
			if rerr := s.files.Remove(storedName); rerr != nil {
				s.logger.Warnw("failed to remove orphan file after insert failure",
					"file", storedName, "error", rerr)
			}
			return nil, err
		}
		res.Created = append(res.Created, *att)
	}

	if len(res.Created) == 0 {
		ve := &ValidationError{}
		for _, r := range res.Rejected {
			ve.add("files", fmt.Sprintf("%s: %s", r.OriginalName, r.Reason))
		}
		if len(ve.Problems) == 0 {
			ve.add("files", "no files provided")
		}
		return nil, ve
	}
	return res, nil
}

// get загружает вложение и проверяет авторство через родительскую запись.
func (s *AttachmentService) get(ctx context.Context, actorID string, id int64) (*model.Attachment, error) {
	att, err := s.atts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.authorizeParent(ctx, actorID, att.CaseNoteID); err != nil {
		return nil, err
	}
	return att, nil
}

// Delete удаляет строку метаданных, затем байты из хранилища.
func (s *AttachmentService) Delete(ctx context.Context, actorID string, id int64) error {
	att, err := s.get(ctx, actorID, id)
	if err != nil {
		return err
	}
	if err := s.atts.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.files.Remove(att.FileName); err != nil {
		s.logger.Warnw("failed to remove attachment file",
			"attachment_id", id, "file", att.FileName, "error", err)
	}
	return nil
}

// Open возвращает метаданные вложения и поток его байтов для скачивания.
// Закрыть поток обязан вызывающий.
func (s *AttachmentService) Open(ctx context.Context, actorID string, id int64) (*model.Attachment, io.ReadCloser, error) {
	att, err := s.get(ctx, actorID, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.files.Open(att.FileName)
	if err != nil {
		return nil, nil, err
	}
	return att, rc, nil
}

// ListFor возвращает вложения записи по возрастанию id.
func (s *AttachmentService) ListFor(ctx context.Context, caseNoteID int64) ([]model.Attachment, error) {
	return s.atts.ListByCaseNote(ctx, caseNoteID)
}
