package model

import "time"

// Attachment — файл, прикреплённый ровно к одной записи.
// FileName — имя в хранилище (генерируется сервером), OriginalName — имя от
// пользователя, только для отображения.
type Attachment struct {
	ID         int64 `gorm:"primaryKey" json:"id"`
	CaseNoteID int64 `gorm:"not null;index" json:"caseNoteId"`

	// Связь с записью; вложения удаляются каскадно вместе с ней.
	CaseNote *CaseNote `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	FileName     string `gorm:"not null" json:"fileName"`
	OriginalName string `gorm:"not null" json:"originalName"`
	MimeType     string `gorm:"not null" json:"mimeType"`
	FileSize     int64  `gorm:"not null" json:"fileSize"`

	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploadedAt"`
}
