package postgres

import (
	"context"
	"fmt"

	"github.com/campus-hub/registration-hub/internal/domain/catalog"
	"github.com/campus-hub/registration-hub/internal/domain/shared"
)

// CatalogRepository implements catalog.Catalog on PostgreSQL. The modules and
// programs tables are reference data, seeded once at startup and only touched
// by administrative tooling afterwards.
type CatalogRepository struct {
	conn *Connection
}

// NewCatalogRepository creates a repository over conn.
func NewCatalogRepository(conn *Connection) *CatalogRepository {
	return &CatalogRepository{conn: conn}
}

// ModulesForFaculty implements catalog.Catalog.
func (r *CatalogRepository) ModulesForFaculty(ctx context.Context, faculty catalog.Faculty) ([]catalog.Module, error) {
	if !faculty.IsValid() {
		return nil, shared.ErrFacultyUnknown
	}

	rows, err := r.conn.Query(ctx, `
		SELECT id, code, name, credits
		FROM modules
		WHERE faculty = $1
		ORDER BY code`, string(faculty))
	if err != nil {
		return nil, fmt.Errorf("query modules: %w", err)
	}
	defer rows.Close()

	var modules []catalog.Module
	for rows.Next() {
		var m catalog.Module
		if err := rows.Scan(&m.ID, &m.Code, &m.Name, &m.Credits); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// ProgramsForFaculty implements catalog.Catalog.
func (r *CatalogRepository) ProgramsForFaculty(ctx context.Context, faculty catalog.Faculty) ([]string, error) {
	if !faculty.IsValid() {
		return nil, shared.ErrFacultyUnknown
	}

	rows, err := r.conn.Query(ctx, `
		SELECT name
		FROM programs
		WHERE faculty = $1
		ORDER BY name`, string(faculty))
	if err != nil {
		return nil, fmt.Errorf("query programs: %w", err)
	}
	defer rows.Close()

	var programs []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		programs = append(programs, name)
	}
	return programs, rows.Err()
}

// Seed upserts the source catalog into the modules and programs tables. Run
// at startup so a fresh database serves the same catalog the static
// implementation does.
func (r *CatalogRepository) Seed(ctx context.Context, source catalog.Catalog) error {
	for _, faculty := range catalog.Faculties() {
		modules, err := source.ModulesForFaculty(ctx, faculty)
		if err != nil {
			return fmt.Errorf("load modules for %s: %w", faculty, err)
		}
		for _, m := range modules {
			_, err := r.conn.Exec(ctx, `
				INSERT INTO modules (id, code, name, credits, faculty)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (id) DO UPDATE
				SET code = EXCLUDED.code,
				    name = EXCLUDED.name,
				    credits = EXCLUDED.credits,
				    faculty = EXCLUDED.faculty`,
				m.ID, m.Code, m.Name, m.Credits, string(faculty),
			)
			if err != nil {
				return fmt.Errorf("seed module %s: %w", m.Code, err)
			}
		}

		programs, err := source.ProgramsForFaculty(ctx, faculty)
		if err != nil {
			return fmt.Errorf("load programs for %s: %w", faculty, err)
		}
		for _, name := range programs {
			_, err := r.conn.Exec(ctx, `
				INSERT INTO programs (faculty, name)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING`,
				string(faculty), name,
			)
			if err != nil {
				return fmt.Errorf("seed program %q: %w", name, err)
			}
		}
	}
	return nil
}
