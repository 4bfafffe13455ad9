package repo

import (
	"CaseNotes/internal/model"
	"context"

	"gorm.io/gorm"
)

// AttachmentRepository — контракт доступа к метаданным вложений.
type AttachmentRepository interface {
	Create(ctx context.Context, att *model.Attachment) error
	GetByID(ctx context.Context, id int64) (*model.Attachment, error)

	// ListByCaseNote возвращает вложения записи по возрастанию id.
	ListByCaseNote(ctx context.Context, caseNoteID int64) ([]model.Attachment, error)

	Delete(ctx context.Context, id int64) error
}

type attachmentRepo struct {
	db *gorm.DB
}

// NewAttachmentRepository создаёт реализацию репозитория для Attachment.
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepo{db: db}
}

var _ AttachmentRepository = (*attachmentRepo)(nil)

func (r *attachmentRepo) Create(ctx context.Context, att *model.Attachment) error {
	return r.db.WithContext(ctx).Create(att).Error
}

func (r *attachmentRepo) GetByID(ctx context.Context, id int64) (*model.Attachment, error) {
	var att model.Attachment
	if err := r.db.WithContext(ctx).First(&att, id).Error; err != nil {
		return nil, err
	}
	return &att, nil
}

func (r *attachmentRepo) ListByCaseNote(ctx context.Context, caseNoteID int64) ([]model.Attachment, error) {
	atts := make([]model.Attachment, 0)
	err := r.db.WithContext(ctx).
		Where("case_note_id = ?", caseNoteID).
		Order("id ASC").
		Find(&atts).Error
	if err != nil {
		return nil, err
	}
	return atts, nil
}

func (r *attachmentRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Attachment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
