package handlers_test

import (
	"CaseNotes/internal/config"
	"CaseNotes/internal/handlers"
	"CaseNotes/internal/middleware"
	"CaseNotes/internal/model"
	"CaseNotes/internal/repo"
	"CaseNotes/internal/service"
	"CaseNotes/internal/storage"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// Local light mocks
type hMockUserRepo struct{ mock.Mock }

func (m *hMockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockUserRepo) Upsert(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	if args.Error(1) == nil {
		return user, nil
	}
	return nil, args.Error(1)
}

var _ repo.UserRepository = (*hMockUserRepo)(nil)

type hMockCaseNoteRepo struct{ mock.Mock }

func (m *hMockCaseNoteRepo) Create(ctx context.Context, note *model.CaseNote) error {
	return m.Called(ctx, note).Error(0)
}
func (m *hMockCaseNoteRepo) GetByID(ctx context.Context, id int64) (*model.CaseNoteWithDetails, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.CaseNoteWithDetails); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockCaseNoteRepo) List(ctx context.Context, filter repo.CaseNoteFilter) ([]model.CaseNoteWithDetails, int64, error) {
	args := m.Called(ctx, filter)
	var notes []model.CaseNoteWithDetails
	if v, ok := args.Get(0).([]model.CaseNoteWithDetails); ok {
		notes = v
	}
	return notes, args.Get(1).(int64), args.Error(2)
}
func (m *hMockCaseNoteRepo) Update(ctx context.Context, id int64, updates map[string]any) (*model.CaseNote, error) {
	args := m.Called(ctx, id, updates)
	if v, ok := args.Get(0).(*model.CaseNote); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockCaseNoteRepo) DeleteCascade(ctx context.Context, id int64) ([]model.Attachment, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).([]model.Attachment); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockCaseNoteRepo) DashboardStats(ctx context.Context, caseworkerID string) (repo.DashboardStats, error) {
	args := m.Called(ctx, caseworkerID)
	return args.Get(0).(repo.DashboardStats), args.Error(1)
}

var _ repo.CaseNoteRepository = (*hMockCaseNoteRepo)(nil)

type hMockAttachmentRepo struct{ mock.Mock }

func (m *hMockAttachmentRepo) Create(ctx context.Context, att *model.Attachment) error {
	return m.Called(ctx, att).Error(0)
}
func (m *hMockAttachmentRepo) GetByID(ctx context.Context, id int64) (*model.Attachment, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Attachment); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockAttachmentRepo) ListByCaseNote(ctx context.Context, caseNoteID int64) ([]model.Attachment, error) {
	args := m.Called(ctx, caseNoteID)
	if v, ok := args.Get(0).([]model.Attachment); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockAttachmentRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var _ repo.AttachmentRepository = (*hMockAttachmentRepo)(nil)

// handlersTestEnv собирает роутер поверх моков репозиториев и настоящего
// дискового хранилища во временном каталоге.
type handlersTestEnv struct {
	Router http.Handler
	Cfg    *config.Config
	Users  *hMockUserRepo
	Notes  *hMockCaseNoteRepo
	Atts   *hMockAttachmentRepo
	Files  storage.FileStore
}

func newHandlersTestEnv(t *testing.T) *handlersTestEnv {
	t.Helper()
	cfg := &config.Config{AuthSecret: "test-secret", UploadMaxMB: 10}
	logger := zap.NewNop().Sugar()

	ur := &hMockUserRepo{}
	nr := &hMockCaseNoteRepo{}
	ar := &hMockAttachmentRepo{}
	files, err := storage.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("disk store: %v", err)
	}

	maxBytes := int64(cfg.UploadMaxMB) * 1024 * 1024
	userSvc := service.NewUserService(ur)
	noteSvc := service.NewCaseNoteService(nr, files, logger)
	attSvc := service.NewAttachmentService(nr, ar, files, maxBytes, logger)
	h := handlers.NewHandler(userSvc, noteSvc, attSvc, logger, cfg)

	return &handlersTestEnv{Router: h.Router, Cfg: cfg, Users: ur, Notes: nr, Atts: ar, Files: files}
}

func addAuth(t *testing.T, req *http.Request, userID, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	_ = middleware.SetLoginCookie(rr, userID, secret)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}
