package migration

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	// драйвер postgres и файловый источник регистрируются через init
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"golang.org/x/exp/slog"
)

// Migrator - то, что нужно от migrate.Migrate
type Migrator interface {
	Up() error
	Version() (uint, bool, error)
	Close() (error, error)
}

// MigrationEngine создает мигратор; в тестах подменяется
type MigrationEngine func(sourceURL, databaseURL string) (Migrator, error)

type Migration struct {
	path        string
	databaseURI string
	engine      MigrationEngine
	log         *slog.Logger
}

func NewMigration(path, databaseURI string, engine MigrationEngine, log *slog.Logger) *Migration {
	if engine == nil {
		engine = DefaultEngine
	}
	return &Migration{
		path:        path,
		databaseURI: databaseURI,
		engine:      engine,
		log:         log.With("component", "migration"),
	}
}

func DefaultEngine(sourceURL, databaseURL string) (Migrator, error) {
	return migrate.New(sourceURL, databaseURL)
}

// Up применяет все миграции из каталога. Отсутствие изменений - не ошибка.
func (mg *Migration) Up() (err error) {
	m, err := mg.engine("file://"+mg.path, mg.databaseURI)
	if err != nil {
		return err
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			err = errors.Join(err, fmt.Errorf("migration source: %w", serr))
		}
		if dberr != nil {
			err = errors.Join(err, fmt.Errorf("migration database: %w", dberr))
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("migration version: %w", verr)
	}
	mg.log.Info("schema is up to date", "version", version, "dirty", dirty)

	return nil
}
