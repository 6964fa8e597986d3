// Package migration applies the versioned SQL schema with goose. Scripts are
// embedded per dialect so the binary migrates without a source checkout.
package migration

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

//go:embed scripts/mysql/*.sql scripts/sqlite/*.sql
var scripts embed.FS

// gooseMu guards goose's package-level dialect and filesystem.
var gooseMu sync.Mutex

// GooseMigrator runs the embedded scripts of one dialect.
type GooseMigrator struct {
	dialect string
	dir     string
	logger  logger.Interface
}

// NewGooseMigrator returns a migrator for driver "mysql" or "sqlite".
func NewGooseMigrator(driver string, log logger.Interface) (*GooseMigrator, error) {
	m := &GooseMigrator{logger: log.With("component", "migration.goose")}
	switch driver {
	case "mysql", "":
		m.dialect, m.dir = "mysql", "scripts/mysql"
	case "sqlite":
		m.dialect, m.dir = "sqlite3", "scripts/sqlite"
	default:
		return nil, fmt.Errorf("unsupported migration driver: %s", driver)
	}
	return m, nil
}

// Up applies every pending migration.
func (m *GooseMigrator) Up(db *gorm.DB) error {
	return m.run(db, func(sqlDB *sql.DB) error {
		from, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get current version: %w", err)
		}

		if err := goose.Up(sqlDB, m.dir); err != nil {
			m.logger.Errorw("migration failed", "error", err)
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		to, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get final version: %w", err)
		}
		m.logger.Infow("migration completed successfully",
			"from_version", from,
			"to_version", to)
		return nil
	})
}

// Down rolls back steps migrations.
func (m *GooseMigrator) Down(db *gorm.DB, steps int) error {
	return m.run(db, func(sqlDB *sql.DB) error {
		for i := 0; i < steps; i++ {
			if err := goose.Down(sqlDB, m.dir); err != nil {
				m.logger.Errorw("down migration failed", "error", err)
				return fmt.Errorf("failed to run down migration: %w", err)
			}
		}
		m.logger.Infow("down migration completed successfully", "steps", steps)
		return nil
	})
}

// Version returns the applied schema version.
func (m *GooseMigrator) Version(db *gorm.DB) (int64, error) {
	var version int64
	err := m.run(db, func(sqlDB *sql.DB) error {
		v, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

// Status prints the state of every migration.
func (m *GooseMigrator) Status(db *gorm.DB) error {
	return m.run(db, func(sqlDB *sql.DB) error {
		if err := goose.Status(sqlDB, m.dir); err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}
		return nil
	})
}

// Create writes a new SQL migration skeleton into dir on disk.
func (m *GooseMigrator) Create(dir, name string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(nil)
	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}
	m.logger.Infow("migration created successfully", "name", name, "dir", dir)
	return nil
}

func (m *GooseMigrator) run(db *gorm.DB, fn func(*sql.DB) error) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(scripts)
	goose.SetLogger(&gooseLogger{log: m.logger})
	if err := goose.SetDialect(m.dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return fn(sqlDB)
}

// ScriptNames lists the embedded migrations of a dialect directory.
func (m *GooseMigrator) ScriptNames() ([]string, error) {
	entries, err := fs.ReadDir(scripts, m.dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

type gooseLogger struct {
	log logger.Interface
}

func (l *gooseLogger) Printf(format string, v ...any) {
	l.log.Debugw(fmt.Sprintf(format, v...))
}

func (l *gooseLogger) Fatalf(format string, v ...any) {
	l.log.Errorw(fmt.Sprintf(format, v...))
	os.Exit(1)
}
