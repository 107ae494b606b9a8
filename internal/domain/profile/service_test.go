package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context) ([]Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Profile), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id string) (Profile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Profile), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, p Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) UpdatePin(ctx context.Context, id, pinHash string) error {
	args := m.Called(ctx, id, pinHash)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newProfile(t *testing.T, id, pin string, admin bool) Profile {
	t.Helper()
	hash, err := HashPin(pin)
	require.NoError(t, err)
	return Profile{ID: id, Name: id, PinHash: hash, IsAdmin: admin}
}

func TestService_Login_ScansAllProfiles(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewPinValidator(), slog.Default())

	alice := newProfile(t, "alice", "1111", false)
	bob := newProfile(t, "bob", "2222", false)
	mockRepo.On("List", mock.Anything).Return([]Profile{alice, bob}, nil)

	p, err := service.Login(context.Background(), "2222", "")
	require.NoError(t, err)
	assert.Equal(t, "bob", p.ID)
	mockRepo.AssertExpectations(t)
}

func TestService_Login_WithProfileID(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewPinValidator(), slog.Default())

	alice := newProfile(t, "alice", "1111", false)
	mockRepo.On("FindByID", mock.Anything, "alice").Return(alice, nil)
	mockRepo.On("FindByID", mock.Anything, "ghost").Return(Profile{}, ErrNotFound)

	p, err := service.Login(context.Background(), "1111", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.ID)

	_, err = service.Login(context.Background(), "9999", "alice")
	assert.ErrorIs(t, err, ErrInvalidAuth)

	_, err = service.Login(context.Background(), "1111", "ghost")
	assert.ErrorIs(t, err, ErrInvalidAuth)
}

func TestService_Login_InvalidPinFormat(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewPinValidator(), slog.Default())

	_, err := service.Login(context.Background(), "12", "")
	assert.ErrorIs(t, err, ErrInvalidAuth)
	mockRepo.AssertNotCalled(t, "List", mock.Anything)
}

func TestService_Create(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewPinValidator(), slog.Default())

	mockRepo.On("FindByID", mock.Anything, "admin_1").Return(Profile{ID: "admin_1", IsAdmin: true}, nil)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p Profile) bool {
		return p.Name == "Jan Novák" && p.Avatar == "JN" && p.CheckPin("4321") && !p.IsAdmin
	})).Return(nil)

	p, err := service.Create(context.Background(), "admin_1", CreateRequest{Name: " Jan Novák ", Pin: "4321"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	mockRepo.AssertExpectations(t)
}

func TestService_Create_Errors(t *testing.T) {
	tests := []struct {
		name    string
		actor   Profile
		req     CreateRequest
		wantErr error
	}{
		{
			name:    "not admin",
			actor:   Profile{ID: "u1"},
			req:     CreateRequest{Name: "X", Pin: "1234"},
			wantErr: ErrForbidden,
		},
		{
			name:    "bad pin",
			actor:   Profile{ID: "u1", IsAdmin: true},
			req:     CreateRequest{Name: "X", Pin: "12ab"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "empty name",
			actor:   Profile{ID: "u1", IsAdmin: true},
			req:     CreateRequest{Name: "  ", Pin: "1234"},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			service := NewService(mockRepo, NewPinValidator(), slog.Default())
			mockRepo.On("FindByID", mock.Anything, tt.actor.ID).Return(tt.actor, nil)

			_, err := service.Create(context.Background(), tt.actor.ID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_ChangePin(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewPinValidator(), slog.Default())

	alice := newProfile(t, "alice", "1111", false)
	mockRepo.On("FindByID", mock.Anything, "alice").Return(alice, nil)
	mockRepo.On("UpdatePin", mock.Anything, "alice", mock.MatchedBy(func(hash string) bool {
		return Profile{PinHash: hash}.CheckPin("5555")
	})).Return(nil)

	assert.ErrorIs(t, service.ChangePin(context.Background(), "alice", "0000", "5555"), ErrInvalidAuth)
	assert.ErrorIs(t, service.ChangePin(context.Background(), "alice", "1111", "55"), ErrInvalidInput)
	require.NoError(t, service.ChangePin(context.Background(), "alice", "1111", "5555"))
	mockRepo.AssertNumberOfCalls(t, "UpdatePin", 1)
}

func TestService_Delete(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewPinValidator(), slog.Default())

	mockRepo.On("FindByID", mock.Anything, "admin_1").Return(Profile{ID: "admin_1", IsAdmin: true}, nil)
	mockRepo.On("FindByID", mock.Anything, "u1").Return(Profile{ID: "u1"}, nil)
	mockRepo.On("Delete", mock.Anything, "u2").Return(nil)

	assert.ErrorIs(t, service.Delete(context.Background(), "u1", "u2"), ErrForbidden)
	assert.ErrorIs(t, service.Delete(context.Background(), "admin_1", "admin_1"), ErrSelfDelete)
	assert.NoError(t, service.Delete(context.Background(), "admin_1", "u2"))
	mockRepo.AssertNumberOfCalls(t, "Delete", 1)
}

func TestService_EnsureDefaultAdmin(t *testing.T) {
	t.Run("empty table", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, NewPinValidator(), slog.Default())
		mockRepo.On("Count", mock.Anything).Return(0, nil)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p Profile) bool {
			return p.ID == DefaultAdminID && p.IsAdmin && p.CheckPin("123456")
		})).Return(nil)

		require.NoError(t, service.EnsureDefaultAdmin(context.Background(), "123456"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("already seeded", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, NewPinValidator(), slog.Default())
		mockRepo.On("Count", mock.Anything).Return(3, nil)

		require.NoError(t, service.EnsureDefaultAdmin(context.Background(), "123456"))
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("count error", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, NewPinValidator(), slog.Default())
		mockRepo.On("Count", mock.Anything).Return(0, errors.New("database error"))

		err := service.EnsureDefaultAdmin(context.Background(), "123456")
		assert.Contains(t, err.Error(), "database error")
	})
}

func TestMatchPin(t *testing.T) {
	a := newProfile(t, "a", "1234", false)
	b := newProfile(t, "b", "1234", false)

	p, err := MatchPin([]Profile{a, b}, "1234", "b")
	require.NoError(t, err)
	assert.Equal(t, "b", p.ID)

	p, err = MatchPin([]Profile{a, b}, "1234", "")
	require.NoError(t, err)
	assert.Equal(t, "a", p.ID)

	_, err = MatchPin([]Profile{a.Public()}, "1234", "")
	assert.ErrorIs(t, err, ErrInvalidAuth)
}
