package photoshare_test

import (
	"context"
	"sync"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/photoshare"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// memoryUserStore is an in-memory photoshare.UserStore used to drive the
// token flow and authenticator without a database.
type memoryUserStore struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*photoshare.User
}

var _ photoshare.UserStore = (*memoryUserStore)(nil)

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{
		byID: make(map[uuid.UUID]*photoshare.User),
	}
}

func notFound(key, value string) error {
	return repository.NewRecordNotFound().WithMetadata(map[string]any{key: value})
}

func (s *memoryUserStore) FindByID(_ context.Context, id uuid.UUID) (*photoshare.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, notFound("id", id.String())
	}

	return copyUser(user), nil
}

func (s *memoryUserStore) GetByEmail(_ context.Context, email string) (*photoshare.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.byID {
		if user.Email == email {
			return copyUser(user), nil
		}
	}

	return nil, notFound("email", email)
}

func (s *memoryUserStore) GetByUsername(_ context.Context, username string) (*photoshare.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.byID {
		if user.Username == username {
			return copyUser(user), nil
		}
	}

	return nil, notFound("username", username)
}

func (s *memoryUserStore) Register(_ context.Context, user *photoshare.User) (*photoshare.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if existing.Email == user.Email {
			return nil, photoshare.ErrEmailTaken
		}
	}

	for _, existing := range s.byID {
		if existing.Username == user.Username {
			return nil, photoshare.ErrUsernameTaken
		}
	}

	record := copyUser(user)
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Role == "" {
		record.Role = photoshare.RoleMember
	}

	s.byID[record.ID] = record

	return copyUser(record), nil
}

func (s *memoryUserStore) StoreRefreshToken(_ context.Context, id uuid.UUID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return notFound("id", id.String())
	}

	user.RefreshToken = token

	return nil
}

func (s *memoryUserStore) MarkVerified(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return notFound("id", id.String())
	}

	if user.EmailVerified {
		return photoshare.ErrAlreadyVerified
	}

	user.EmailVerified = true

	return nil
}

func (s *memoryUserStore) ResetPassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return notFound("id", id.String())
	}

	user.PasswordHash = passwordHash
	user.RefreshToken = ""

	return nil
}

func copyUser(user *photoshare.User) *photoshare.User {
	clone := *user
	return &clone
}

// recordingNotifier captures the tokens that would ride in emails so
// tests can redeem them.
type recordingNotifier struct {
	Verifications chan string
	Resets        chan string
}

var _ photoshare.Notifier = (*recordingNotifier)(nil)

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{
		Verifications: make(chan string, 8),
		Resets:        make(chan string, 8),
	}
}

func (n *recordingNotifier) SendVerification(_ context.Context, _, _, token, _ string) error {
	n.Verifications <- token
	return nil
}

func (n *recordingNotifier) SendPasswordReset(_ context.Context, _, _, token, _ string) error {
	n.Resets <- token
	return nil
}

// MockNotifier implements photoshare.Notifier for expectation-style tests
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendVerification(ctx context.Context, email, username, token, origin string) error {
	args := m.Called(ctx, email, username, token, origin)
	return args.Error(0)
}

func (m *MockNotifier) SendPasswordReset(ctx context.Context, email, username, token, origin string) error {
	args := m.Called(ctx, email, username, token, origin)
	return args.Error(0)
}

// MockLogger implements photoshare.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}
