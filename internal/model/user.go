package model

import "time"

// User — учётная запись соцработника. Создаётся или обновляется upsert-ом
// при каждом входе через внешнего провайдера аутентификации. Не удаляется.
type User struct {
	ID           string  `gorm:"primaryKey;type:uuid" json:"id"`
	Email        *string `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash []byte  `gorm:"not null" json:"-"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Role         string  `gorm:"not null;default:caseworker" json:"role"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Caseworker — срез публичных полей User для обогащённых ответов.
// nil, если ссылка на автора больше не разрешается.
type Caseworker struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}
