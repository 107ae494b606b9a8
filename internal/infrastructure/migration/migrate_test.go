package migration

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"
)

// MockMigrator - мок для интерфейса Migrator
type MockMigrator struct {
	mock.Mock
}

func (m *MockMigrator) Up() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockMigrator) Version() (uint, bool, error) {
	args := m.Called()
	return args.Get(0).(uint), args.Bool(1), args.Error(2)
}

func (m *MockMigrator) Close() (error, error) {
	args := m.Called()
	return args.Error(0), args.Error(1)
}

func TestMigration_Up_Success(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(nil)
	mockM.On("Version").Return(uint(1), false, nil)
	mockM.On("Close").Return(nil, nil)

	var source string
	engine := func(src, db string) (Migrator, error) {
		source = src
		return mockM, nil
	}

	err := NewMigration("migrations", "postgres://localhost/paintpro", engine, slog.Default()).Up()

	assert.NoError(t, err)
	assert.Equal(t, "file://migrations", source)
	mockM.AssertExpectations(t)
}

func TestMigration_Up_NoChange(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(migrate.ErrNoChange)
	mockM.On("Version").Return(uint(1), false, nil)
	mockM.On("Close").Return(nil, nil)

	engine := func(source, db string) (Migrator, error) {
		return mockM, nil
	}

	err := NewMigration("migrations", "", engine, slog.Default()).Up()

	assert.NoError(t, err)
}

func TestMigration_Up_Failure(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(errors.New("syntax error at or near"))
	mockM.On("Close").Return(nil, errors.New("conn busy"))

	engine := func(source, db string) (Migrator, error) {
		return mockM, nil
	}

	err := NewMigration("migrations", "", engine, slog.Default()).Up()

	assert.ErrorContains(t, err, "syntax error")
	assert.ErrorContains(t, err, "conn busy")
	mockM.AssertNotCalled(t, "Version")
}

func TestMigration_Up_EngineError(t *testing.T) {
	engine := func(source, db string) (Migrator, error) {
		return nil, errors.New("engine crash")
	}

	err := NewMigration("migrations", "", engine, slog.Default()).Up()

	assert.EqualError(t, err, "engine crash")
}
