package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/riskibarqy/football-data-pipeline/internal/config"
	"github.com/riskibarqy/football-data-pipeline/internal/platform/logging"
)

// ErrNoMigrationVersion is returned by Version before the first migration ran.
var ErrNoMigrationVersion = errors.New("no migration applied")

// Migrator applies the SQL files under db/migrations to DB_URL.
type Migrator struct {
	m      *migrate.Migrate
	source string
	logger *logging.Logger
}

func NewMigrator(cfg config.Config, logger *logging.Logger) (*Migrator, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		return nil, errors.New("DB_URL is required")
	}
	dir, err := resolveMigrationsDir(cfg.MigrationsDir)
	if err != nil {
		return nil, err
	}

	source := "file://" + filepath.ToSlash(dir)
	m, err := migrate.New(source, postgresDSN(cfg.DBURL).withPreparedBinaryResult(cfg.DBDisablePreparedBinary))
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return &Migrator{m: m, source: source, logger: logger}, nil
}

func (g *Migrator) Up() error {
	if err := g.handle(g.m.Up()); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	g.logger.Info("migrations applied", "source", g.source)
	return nil
}

func (g *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("down steps must be > 0, got %d", steps)
	}
	if err := g.handle(g.m.Steps(-steps)); err != nil {
		return fmt.Errorf("migrate down %d: %w", steps, err)
	}
	g.logger.Info("migrations rolled back", "steps", steps)
	return nil
}

func (g *Migrator) Goto(version uint) error {
	if err := g.handle(g.m.Migrate(version)); err != nil {
		return fmt.Errorf("migrate to %d: %w", version, err)
	}
	g.logger.Info("migrated", "version", version)
	return nil
}

// Force sets the recorded version without running any file, clearing the
// dirty flag left by a failed migration.
func (g *Migrator) Force(version int) error {
	if version < 0 {
		return fmt.Errorf("version must be >= 0, got %d", version)
	}
	if err := g.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	g.logger.Warn("migration version forced", "version", version)
	return nil
}

func (g *Migrator) Version() (uint, bool, error) {
	version, dirty, err := g.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, ErrNoMigrationVersion
	}
	if err != nil {
		return 0, false, fmt.Errorf("read version: %w", err)
	}
	return version, dirty, nil
}

func (g *Migrator) Close() {
	srcErr, dbErr := g.m.Close()
	if srcErr != nil {
		g.logger.Warn("close migration source", "error", srcErr)
	}
	if dbErr != nil {
		g.logger.Warn("close migration db", "error", dbErr)
	}
}

func (g *Migrator) handle(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		g.logger.Info("no migration changes")
		return nil
	}
	return err
}

func resolveMigrationsDir(configured string) (string, error) {
	candidates := []string{
		strings.TrimSpace(configured),
		"./db/migrations",
		"/app/db/migrations",
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			continue
		}
		return abs, nil
	}

	return "", fmt.Errorf("migration directory not found (checked MIGRATIONS_DIR, ./db/migrations, /app/db/migrations)")
}
