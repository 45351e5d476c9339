package catalog

import (
	"context"

	"github.com/campus-hub/registration-hub/internal/domain/shared"
)

// StaticCatalog serves the built-in module catalog. It is the default
// implementation for single-instance deployments and tests; the postgres
// catalog repository replaces it when the catalog is managed externally.
type StaticCatalog struct {
	modules  map[Faculty][]Module
	programs map[Faculty][]string
}

// NewStaticCatalog returns a catalog seeded with the current academic year's
// module offerings.
func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{
		modules:  seedModules(),
		programs: seedPrograms(),
	}
}

// ModulesForFaculty implements Catalog.
func (c *StaticCatalog) ModulesForFaculty(_ context.Context, faculty Faculty) ([]Module, error) {
	modules, ok := c.modules[faculty]
	if !ok {
		return nil, shared.ErrFacultyUnknown
	}
	out := make([]Module, len(modules))
	copy(out, modules)
	return out, nil
}

// ProgramsForFaculty implements Catalog.
func (c *StaticCatalog) ProgramsForFaculty(_ context.Context, faculty Faculty) ([]string, error) {
	programs, ok := c.programs[faculty]
	if !ok {
		return nil, shared.ErrFacultyUnknown
	}
	out := make([]string, len(programs))
	copy(out, programs)
	return out, nil
}

func seedModules() map[Faculty][]Module {
	return map[Faculty][]Module{
		FacultyInformationTech: {
			{ID: "1", Name: "Software Engineering", Code: "BIT201", Credits: 4},
			{ID: "2", Name: "Database Systems", Code: "BIT202", Credits: 4},
			{ID: "3", Name: "Web Development", Code: "BIT203", Credits: 3},
			{ID: "4", Name: "Artificial Intelligence", Code: "BIT204", Credits: 4},
			{ID: "5", Name: "Computer Networks", Code: "BIT205", Credits: 4},
			{ID: "6", Name: "Mobile App Development", Code: "BIT206", Credits: 3},
		},
		FacultyDesignInnovation: {
			{ID: "7", Name: "Visual Communication", Code: "BDI101", Credits: 4},
			{ID: "8", Name: "Industrial Design", Code: "BDI102", Credits: 4},
			{ID: "9", Name: "Typography Design", Code: "BDI103", Credits: 3},
			{ID: "10", Name: "Product Design", Code: "BDI104", Credits: 4},
			{ID: "11", Name: "Design Thinking", Code: "BDI105", Credits: 4},
			{ID: "12", Name: "Sustainable Design", Code: "BDI106", Credits: 3},
		},
		FacultyMultimediaCreativity: {
			{ID: "13", Name: "Digital Animation", Code: "BMC301", Credits: 4},
			{ID: "14", Name: "Game Development", Code: "BMC302", Credits: 4},
			{ID: "15", Name: "Sound Design", Code: "BMC303", Credits: 3},
			{ID: "16", Name: "Motion Graphics", Code: "BMC304", Credits: 4},
			{ID: "17", Name: "3D Modelling", Code: "BMC305", Credits: 4},
			{ID: "18", Name: "Interactive Media", Code: "BMC306", Credits: 3},
		},
		FacultyBusinessManagement: {
			{ID: "19", Name: "Marketing Strategy", Code: "BBM401", Credits: 4},
			{ID: "20", Name: "Corporate Finance", Code: "BBM402", Credits: 4},
			{ID: "21", Name: "Business Ethics", Code: "BBM403", Credits: 3},
			{ID: "22", Name: "Entrepreneurship", Code: "BBM404", Credits: 4},
			{ID: "23", Name: "Operations Management", Code: "BBM405", Credits: 4},
			{ID: "24", Name: "International Business", Code: "BBM406", Credits: 3},
		},
	}
}

func seedPrograms() map[Faculty][]string {
	return map[Faculty][]string{
		FacultyInformationTech: {
			"BSc Software Engineering with Multimedia",
			"BSc Computer Science",
			"BSc Information Systems",
			"BSc Cybersecurity",
			"BSc Data Science and Analytics",
			"BSc Network Engineering",
			"BSc Mobile Computing",
		},
		FacultyDesignInnovation: {
			"BA Industrial Design",
			"BA Graphic Design",
			"BA Interior Architecture",
			"BA Product Design",
			"BA Fashion Design",
			"BA Visual Communication Design",
		},
		FacultyMultimediaCreativity: {
			"BA Digital Film and Television",
			"BA Animation",
			"BA Game Design",
			"BA Interactive Multimedia",
			"BA Sound Design",
			"BA Broadcasting and Journalism",
		},
		FacultyBusinessManagement: {
			"BA Business Administration",
			"BA Marketing",
			"BA Finance and Banking",
			"BA International Business",
			"BA Entrepreneurship",
			"BA Human Resource Management",
			"BA Accounting",
		},
	}
}
