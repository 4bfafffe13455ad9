package service

import (
	"CaseNotes/internal/model"
	"CaseNotes/internal/repo"
	"CaseNotes/internal/storage"
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"
)

// мок для repo.UserRepository
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Upsert(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	if args.Error(1) == nil {
		// Return(nil, nil) — вернуть аргумент как есть
		return user, nil
	}
	return nil, args.Error(1)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

// мок для repo.CaseNoteRepository
type mockCaseNoteRepo struct{ mock.Mock }

func (m *mockCaseNoteRepo) Create(ctx context.Context, note *model.CaseNote) error {
	return m.Called(ctx, note).Error(0)
}

func (m *mockCaseNoteRepo) GetByID(ctx context.Context, id int64) (*model.CaseNoteWithDetails, error) {
	args := m.Called(ctx, id)
	if n, ok := args.Get(0).(*model.CaseNoteWithDetails); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCaseNoteRepo) List(ctx context.Context, filter repo.CaseNoteFilter) ([]model.CaseNoteWithDetails, int64, error) {
	args := m.Called(ctx, filter)
	var notes []model.CaseNoteWithDetails
	if v, ok := args.Get(0).([]model.CaseNoteWithDetails); ok {
		notes = v
	}
	return notes, args.Get(1).(int64), args.Error(2)
}

func (m *mockCaseNoteRepo) Update(ctx context.Context, id int64, updates map[string]any) (*model.CaseNote, error) {
	args := m.Called(ctx, id, updates)
	if n, ok := args.Get(0).(*model.CaseNote); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCaseNoteRepo) DeleteCascade(ctx context.Context, id int64) ([]model.Attachment, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).([]model.Attachment); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCaseNoteRepo) DashboardStats(ctx context.Context, caseworkerID string) (repo.DashboardStats, error) {
	args := m.Called(ctx, caseworkerID)
	return args.Get(0).(repo.DashboardStats), args.Error(1)
}

var _ repo.CaseNoteRepository = (*mockCaseNoteRepo)(nil)

// мок для repo.AttachmentRepository
type mockAttachmentRepo struct{ mock.Mock }

func (m *mockAttachmentRepo) Create(ctx context.Context, att *model.Attachment) error {
	return m.Called(ctx, att).Error(0)
}

func (m *mockAttachmentRepo) GetByID(ctx context.Context, id int64) (*model.Attachment, error) {
	args := m.Called(ctx, id)
	if a, ok := args.Get(0).(*model.Attachment); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAttachmentRepo) ListByCaseNote(ctx context.Context, caseNoteID int64) ([]model.Attachment, error) {
	args := m.Called(ctx, caseNoteID)
	if v, ok := args.Get(0).([]model.Attachment); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAttachmentRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var _ repo.AttachmentRepository = (*mockAttachmentRepo)(nil)

// fakeFileStore — хранилище в памяти для тестов сервисов.
type fakeFileStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	saveErr error
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: map[string][]byte{}}
}

func (s *fakeFileStore) Save(name string, r io.Reader) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	s.files[name] = data
	return int64(len(data)), nil
}

func (s *fakeFileStore) Open(name string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	if !ok {
		return nil, errors.New("file not found: " + name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeFileStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, name)
	return nil
}

func (s *fakeFileStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

var _ storage.FileStore = (*fakeFileStore)(nil)
