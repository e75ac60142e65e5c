package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/vladimiradmaev/diabetes-care/internal/logger"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// Embedded returns the SQL migrations compiled into the binary
func Embedded() fs.FS {
	return sqlFiles
}

// Migration represents a database migration
type Migration struct {
	ID   string
	Up   func(*gorm.DB) error
	Down func(*gorm.DB) error
}

// MigrationRecord represents a record of executed migrations
type MigrationRecord struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}

// Registry holds migrations by id; they run in lexical id order
type Registry struct {
	migrations map[string]Migration
}

func NewRegistry() *Registry {
	return &Registry{migrations: make(map[string]Migration)}
}

// Register adds a new migration to the registry
func (r *Registry) Register(id string, up, down func(*gorm.DB) error) {
	r.migrations[id] = Migration{
		ID:   id,
		Up:   up,
		Down: down,
	}
}

// IDs returns the registered ids in execution order
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.migrations))
	for id := range r.migrations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Run executes all pending migrations, each in its own transaction
func (r *Registry) Run(db *gorm.DB) error {
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var executed []MigrationRecord
	if err := db.Find(&executed).Error; err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}

	done := make(map[string]bool, len(executed))
	for _, m := range executed {
		done[m.ID] = true
	}

	for _, id := range r.IDs() {
		if done[id] {
			continue
		}
		migration := r.migrations[id]

		logger.Info("Running migration", "id", id)
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{ID: id}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to run migration %s: %w", id, err)
		}
	}

	return nil
}

// LoadSQL registers every .sql file in dir of fsys. The file name without
// extension is the migration id.
func (r *Registry) LoadSQL(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		statements := SplitStatements(string(content))
		r.Register(strings.TrimSuffix(entry.Name(), ".sql"), func(db *gorm.DB) error {
			for _, stmt := range statements {
				if err := db.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return nil
		}, nil)
	}

	return nil
}

// SplitStatements breaks a script on ";" so each statement runs on its own;
// the extended query protocol rejects multi-statement strings.
func SplitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
