package model

import "time"

// Программные области — фиксированный перечень категорий помощи.
const (
	ProgramRCA     = "RCA"
	ProgramMedical = "Medical"
	ProgramSAS     = "SAS"
	ProgramEMP     = "EMP"
	ProgramELI     = "ELI"
	ProgramRMA     = "RMA"
)

// ProgramAreas — допустимые значения поля ProgramArea в порядке отображения.
var ProgramAreas = []string{ProgramRCA, ProgramMedical, ProgramSAS, ProgramEMP, ProgramELI, ProgramRMA}

// IsValidProgramArea проверяет значение по перечню.
func IsValidProgramArea(v string) bool {
	for _, p := range ProgramAreas {
		if v == p {
			return true
		}
	}
	return false
}

// CaseNote — запись о взаимодействии соцработника с клиентом.
// CaseworkerID фиксируется при создании и далее не меняется.
type CaseNote struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	ProgramArea  string `gorm:"not null;index" json:"programArea"`
	CaseworkerID string `gorm:"not null;index" json:"caseworkerId"`

	TranslationProvided bool   `gorm:"not null" json:"translationProvided"`
	Narrative           string `gorm:"not null" json:"narrative"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// CaseNoteWithDetails — запись, обогащённая автором и вложениями.
// Caseworker может быть nil при отсутствующей записи пользователя (left join).
type CaseNoteWithDetails struct {
	CaseNote
	Caseworker  *Caseworker  `json:"caseworker"`
	Attachments []Attachment `json:"attachments"`
}
