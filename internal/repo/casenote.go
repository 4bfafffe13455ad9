package repo

import (
	"CaseNotes/internal/model"
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

// SortKey — допустимые ключи сортировки списка записей.
type SortKey string

const (
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
	SortProgram    SortKey = "program"
	SortCaseworker SortKey = "caseworker"
)

// ParseSortKey возвращает ключ сортировки; неизвестные значения откатываются
// на SortNewest.
func ParseSortKey(v string) SortKey {
	switch SortKey(v) {
	case SortOldest, SortProgram, SortCaseworker:
		return SortKey(v)
	default:
		return SortNewest
	}
}

// CaseNoteFilter — типизированная спецификация выборки. Пустые поля не
// участвуют в предикате; непустые объединяются через AND.
type CaseNoteFilter struct {
	ProgramArea string
	Search      string
	StartDate   *time.Time
	EndDate     *time.Time
	SortBy      SortKey
	Limit       int
	Offset      int
}

// DashboardStats — сводные счётчики для дашборда.
type DashboardStats struct {
	TotalNotes           int64 `json:"totalNotes"`
	TodayNotes           int64 `json:"todayNotes"`
	RCACases             int64 `json:"rcaCases"`
	TranslationsProvided int64 `json:"translationsProvided"`
}

// CaseNoteRepository — контракт доступа к записям.
type CaseNoteRepository interface {
	Create(ctx context.Context, note *model.CaseNote) error

	// GetByID возвращает запись, обогащённую автором и вложениями.
	GetByID(ctx context.Context, id int64) (*model.CaseNoteWithDetails, error)

	// List возвращает страницу записей и общее число совпадений по тому же
	// предикату без учёта окна limit/offset.
	List(ctx context.Context, filter CaseNoteFilter) ([]model.CaseNoteWithDetails, int64, error)

	// Update применяет частичное обновление и возвращает свежую запись.
	Update(ctx context.Context, id int64, updates map[string]any) (*model.CaseNote, error)

	// DeleteCascade удаляет запись вместе со строками вложений в одной
	// транзакции и возвращает удалённые вложения (для очистки файлов).
	DeleteCascade(ctx context.Context, id int64) ([]model.Attachment, error)

	// DashboardStats считает счётчики, опционально ограниченные одним
	// соцработником. Граница "сегодня" вычисляется один раз на вызов.
	DashboardStats(ctx context.Context, caseworkerID string) (DashboardStats, error)
}

type caseNoteRepo struct {
	db *gorm.DB
}

// NewCaseNoteRepository создаёт реализацию репозитория для CaseNote.
func NewCaseNoteRepository(db *gorm.DB) CaseNoteRepository {
	return &caseNoteRepo{db: db}
}

var _ CaseNoteRepository = (*caseNoteRepo)(nil)

func (r *caseNoteRepo) Create(ctx context.Context, note *model.CaseNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

// noteRow — плоская строка выборки с left join на users.
type noteRow struct {
	ID                  int64
	ProgramArea         string
	CaseworkerID        string
	TranslationProvided bool
	Narrative           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	CwID                *string
	CwFirstName         *string
	CwLastName          *string
	CwRole              *string
}

const noteSelect = `case_notes.id, case_notes.program_area, case_notes.caseworker_id,
	case_notes.translation_provided, case_notes.narrative,
	case_notes.created_at, case_notes.updated_at,
	users.id AS cw_id, users.first_name AS cw_first_name,
	users.last_name AS cw_last_name, users.role AS cw_role`

func (row noteRow) toDetails() model.CaseNoteWithDetails {
	d := model.CaseNoteWithDetails{
		CaseNote: model.CaseNote{
			ID:                  row.ID,
			ProgramArea:         row.ProgramArea,
			CaseworkerID:        row.CaseworkerID,
			TranslationProvided: row.TranslationProvided,
			Narrative:           row.Narrative,
			CreatedAt:           row.CreatedAt,
			UpdatedAt:           row.UpdatedAt,
		},
		Attachments: []model.Attachment{},
	}
	if row.CwID != nil {
		cw := model.Caseworker{ID: *row.CwID}
		if row.CwFirstName != nil {
			cw.FirstName = *row.CwFirstName
		}
		if row.CwLastName != nil {
			cw.LastName = *row.CwLastName
		}
		if row.CwRole != nil {
			cw.Role = *row.CwRole
		}
		d.Caseworker = &cw
	}
	return d
}

// applyFilter навешивает условия фильтра на запрос. Используется и для
// страницы, и для count, чтобы оба значения шли от одного предиката.
func applyFilter(q *gorm.DB, f CaseNoteFilter) *gorm.DB {
	if f.ProgramArea != "" {
		q = q.Where("case_notes.program_area = ?", f.ProgramArea)
	}
	if f.Search != "" {
		// регистронезависимый поиск по подстроке, переносимо между СУБД
		q = q.Where("LOWER(case_notes.narrative) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	if f.StartDate != nil {
		q = q.Where("case_notes.created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("case_notes.created_at <= ?", *f.EndDate)
	}
	return q
}

func orderExpr(sortBy SortKey) string {
	switch sortBy {
	case SortOldest:
		return "case_notes.created_at ASC"
	case SortProgram:
		return "case_notes.program_area ASC"
	case SortCaseworker:
		// отсутствующий автор сортируется как пустая фамилия
		return "COALESCE(users.last_name, '') ASC"
	default:
		return "case_notes.created_at DESC"
	}
}

func (r *caseNoteRepo) List(ctx context.Context, f CaseNoteFilter) ([]model.CaseNoteWithDetails, int64, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var total int64
	countQ := applyFilter(r.db.WithContext(ctx).Model(&model.CaseNote{}), f)
	if err := countQ.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []noteRow
	pageQ := r.db.WithContext(ctx).Table("case_notes").
		Select(noteSelect).
		Joins("LEFT JOIN users ON users.id = case_notes.caseworker_id")
	pageQ = applyFilter(pageQ, f).
		Order(orderExpr(f.SortBy)).
		Limit(limit).
		Offset(offset)
	if err := pageQ.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	notes := make([]model.CaseNoteWithDetails, 0, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, row.toDetails())
		ids = append(ids, row.ID)
	}

	if err := r.attachTo(ctx, notes, ids); err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

// attachTo дополняет страницу вложениями одним запросом по всем id.
func (r *caseNoteRepo) attachTo(ctx context.Context, notes []model.CaseNoteWithDetails, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	var atts []model.Attachment
	err := r.db.WithContext(ctx).
		Where("case_note_id IN ?", ids).
		Order("id ASC").
		Find(&atts).Error
	if err != nil {
		return err
	}
	byNote := make(map[int64][]model.Attachment, len(ids))
	for _, a := range atts {
		byNote[a.CaseNoteID] = append(byNote[a.CaseNoteID], a)
	}
	for i := range notes {
		if list, ok := byNote[notes[i].ID]; ok {
			notes[i].Attachments = list
		}
	}
	return nil
}

func (r *caseNoteRepo) GetByID(ctx context.Context, id int64) (*model.CaseNoteWithDetails, error) {
	var rows []noteRow
	err := r.db.WithContext(ctx).Table("case_notes").
		Select(noteSelect).
		Joins("LEFT JOIN users ON users.id = case_notes.caseworker_id").
		Where("case_notes.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	note := rows[0].toDetails()
	notes := []model.CaseNoteWithDetails{note}
	if err := r.attachTo(ctx, notes, []int64{id}); err != nil {
		return nil, err
	}
	return &notes[0], nil
}

func (r *caseNoteRepo) Update(ctx context.Context, id int64, updates map[string]any) (*model.CaseNote, error) {
	tx := r.db.WithContext(ctx).Model(&model.CaseNote{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var note model.CaseNote
	if err := r.db.WithContext(ctx).First(&note, id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *caseNoteRepo) DeleteCascade(ctx context.Context, id int64) ([]model.Attachment, error) {
	var atts []model.Attachment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("case_note_id = ?", id).Order("id ASC").Find(&atts).Error; err != nil {
			return err
		}
		if err := tx.Where("case_note_id = ?", id).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.CaseNote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return atts, nil
}

func (r *caseNoteRepo) DashboardStats(ctx context.Context, caseworkerID string) (DashboardStats, error) {
	var stats DashboardStats

	// граница суток вычисляется один раз и переиспользуется всеми счётчиками
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	nextMidnight := midnight.AddDate(0, 0, 1)

	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&model.CaseNote{})
		if caseworkerID != "" {
			q = q.Where("caseworker_id = ?", caseworkerID)
		}
		return q
	}
	today := func() *gorm.DB {
		return scoped().Where("created_at >= ? AND created_at < ?", midnight, nextMidnight)
	}

	if err := scoped().Count(&stats.TotalNotes).Error; err != nil {
		return stats, err
	}
	if err := today().Count(&stats.TodayNotes).Error; err != nil {
		return stats, err
	}
	if err := today().Where("program_area = ?", model.ProgramRCA).Count(&stats.RCACases).Error; err != nil {
		return stats, err
	}
	if err := today().Where("translation_provided = ?", true).Count(&stats.TranslationsProvided).Error; err != nil {
		return stats, err
	}
	return stats, nil
}
