// Package catalog holds the faculty module catalog: which modules each faculty
// offers for semester registration. The catalog is read-only input to the
// registration workflow; it never changes as part of a submission's lifecycle.
package catalog

import (
	"context"
	"strings"

	"github.com/campus-hub/registration-hub/internal/domain/shared"
)

// Faculty identifies one of the university's faculties.
type Faculty string

const (
	FacultyDesignInnovation     Faculty = "Faculty of Design Innovation"
	FacultyMultimediaCreativity Faculty = "Faculty of Multimedia Creativity"
	FacultyInformationTech      Faculty = "Faculty of Information Technology"
	FacultyBusinessManagement   Faculty = "Faculty of Business Management"
)

// Faculties returns all known faculties in display order.
func Faculties() []Faculty {
	return []Faculty{
		FacultyDesignInnovation,
		FacultyMultimediaCreativity,
		FacultyInformationTech,
		FacultyBusinessManagement,
	}
}

// IsValid checks that the faculty is one of the known faculties.
func (f Faculty) IsValid() bool {
	switch f {
	case FacultyDesignInnovation, FacultyMultimediaCreativity,
		FacultyInformationTech, FacultyBusinessManagement:
		return true
	default:
		return false
	}
}

// String returns the display name of the faculty.
func (f Faculty) String() string {
	return string(f)
}

// Module is a registrable unit of study. Immutable once defined in the catalog.
type Module struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
}

// Validate checks the module definition is complete.
func (m Module) Validate() error {
	if strings.TrimSpace(m.ID) == "" || strings.TrimSpace(m.Code) == "" || strings.TrimSpace(m.Name) == "" {
		return shared.ErrInvalidModule
	}
	if m.Credits <= 0 {
		return shared.ErrInvalidModule
	}
	return nil
}

// Catalog resolves the set of modules a faculty offers. Implementations live
// in infrastructure (static seed, postgres).
type Catalog interface {
	// ModulesForFaculty returns the modules offered by the faculty.
	// Returns shared.ErrFacultyUnknown for an unknown faculty.
	ModulesForFaculty(ctx context.Context, faculty Faculty) ([]Module, error)

	// ProgramsForFaculty returns the degree programs the faculty runs.
	ProgramsForFaculty(ctx context.Context, faculty Faculty) ([]string, error)
}
