package repo

import (
	"CaseNotes/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository — контракт доступа к учётным записям соцработников.
type UserRepository interface {
	// GetByID возвращает пользователя по идентификатору.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// GetByEmail возвращает пользователя по email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// Upsert вставляет пользователя или обновляет его профиль по id.
	// Вызывается при каждом входе.
	Upsert(ctx context.Context, user *model.User) (*model.User, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository создаёт реализацию репозитория для User.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

var _ UserRepository = (*userRepo)(nil)

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Upsert(ctx context.Context, user *model.User) (*model.User, error) {
	user.UpdatedAt = time.Now()
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "first_name", "last_name", "role", "password_hash", "updated_at",
		}),
	}).Create(user)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return user, nil
}
