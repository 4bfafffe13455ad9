package service

import (
	"CaseNotes/internal/model"
	"CaseNotes/internal/repo"
	"CaseNotes/internal/storage"
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CaseNoteService инкапсулирует бизнес-логику записей: валидацию, проверку
// авторства и каскадное удаление вместе с файлами вложений.
type CaseNoteService struct {
	notes  repo.CaseNoteRepository
	files  storage.FileStore
	logger *zap.SugaredLogger
}

func NewCaseNoteService(notes repo.CaseNoteRepository, files storage.FileStore, logger *zap.SugaredLogger) *CaseNoteService {
	return &CaseNoteService{notes: notes, files: files, logger: logger}
}

// CreateCaseNoteInput — поля создания записи. Автор берётся из сессии.
type CreateCaseNoteInput struct {
	ProgramArea         string
	TranslationProvided *bool
	Narrative           string
}

// UpdateCaseNoteInput — частичное обновление; nil-поля не трогаются.
// Автор записи неизменяем.
type UpdateCaseNoteInput struct {
	ProgramArea         *string
	TranslationProvided *bool
	Narrative           *string
}

// List возвращает страницу записей и общее число совпадений.
func (s *CaseNoteService) List(ctx context.Context, f repo.CaseNoteFilter) ([]model.CaseNoteWithDetails, int64, error) {
	return s.notes.List(ctx, f)
}

// Get возвращает обогащённую запись. Чтение не ограничено авторством:
// нагрузка по клиентам общая для всех соцработников.
func (s *CaseNoteService) Get(ctx context.Context, id int64) (*model.CaseNoteWithDetails, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return note, nil
}

// Create валидирует поля и создаёт запись от имени caseworkerID.
func (s *CaseNoteService) Create(ctx context.Context, caseworkerID string, in CreateCaseNoteInput) (*model.CaseNote, error) {
	ve := &ValidationError{}
	if !model.IsValidProgramArea(in.ProgramArea) {
		ve.add("programArea", "must be one of: "+strings.Join(model.ProgramAreas, ", "))
	}
	if in.TranslationProvided == nil {
		ve.add("translationProvided", "is required")
	}
	if strings.TrimSpace(in.Narrative) == "" {
		ve.add("narrative", "must not be empty")
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	note := &model.CaseNote{
		ProgramArea:         in.ProgramArea,
		CaseworkerID:        caseworkerID,
		TranslationProvided: *in.TranslationProvided,
		Narrative:           in.Narrative,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// authorize загружает запись и сверяет автора с действующей личностью.
// Применяется перед каждой мутацией записи или её вложений.
func (s *CaseNoteService) authorize(ctx context.Context, actorID string, noteID int64) (*model.CaseNoteWithDetails, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if note.CaseworkerID != actorID {
		return nil, ErrForbidden
	}
	return note, nil
}

// Update применяет частичное обновление после проверки авторства.
func (s *CaseNoteService) Update(ctx context.Context, actorID string, id int64, in UpdateCaseNoteInput) (*model.CaseNote, error) {
	if _, err := s.authorize(ctx, actorID, id); err != nil {
		return nil, err
	}

	ve := &ValidationError{}
	updates := map[string]any{}
	if in.ProgramArea != nil {
		if !model.IsValidProgramArea(*in.ProgramArea) {
			ve.add("programArea", "must be one of: "+strings.Join(model.ProgramAreas, ", "))
		} else {
			updates["program_area"] = *in.ProgramArea
		}
	}
	if in.TranslationProvided != nil {
		updates["translation_provided"] = *in.TranslationProvided
	}
	if in.Narrative != nil {
		if strings.TrimSpace(*in.Narrative) == "" {
			ve.add("narrative", "must not be empty")
		} else {
			updates["narrative"] = *in.Narrative
		}
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		ve.add("body", "no updatable fields provided")
		return nil, ve
	}

	note, err := s.notes.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return note, nil
}

// Delete удаляет запись и строки её вложений в одной транзакции, затем
// подчищает файлы. Ошибка удаления файла логируется, но запрос не валит:
// метаданные уже согласованы.
func (s *CaseNoteService) Delete(ctx context.Context, actorID string, id int64) error {
	if _, err := s.authorize(ctx, actorID, id); err != nil {
		return err
	}

	atts, err := s.notes.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	for _, a := range atts {
		if err := s.files.Remove(a.FileName); err != nil {
			s.logger.Warnw("failed to remove attachment file after note delete",
				"case_note_id", id, "attachment_id", a.ID, "file", a.FileName, "error", err)
		}
	}
	return nil
}

// Stats возвращает счётчики дашборда, ограниченные одним соцработником
// (пустой caseworkerID — без ограничения).
func (s *CaseNoteService) Stats(ctx context.Context, caseworkerID string) (repo.DashboardStats, error) {
	return s.notes.DashboardStats(ctx, caseworkerID)
}
