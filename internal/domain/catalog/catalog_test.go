package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/registration-hub/internal/domain/shared"
)

func TestStaticCatalog_ModulesForFaculty(t *testing.T) {
	cat := NewStaticCatalog()
	ctx := context.Background()

	for _, faculty := range Faculties() {
		modules, err := cat.ModulesForFaculty(ctx, faculty)
		require.NoError(t, err, "faculty %q", faculty)
		assert.Len(t, modules, 6)

		seen := make(map[string]bool)
		for _, m := range modules {
			assert.NoError(t, m.Validate())
			assert.False(t, seen[m.ID], "duplicate module id %q in %q", m.ID, faculty)
			seen[m.ID] = true
		}
	}
}

func TestStaticCatalog_UnknownFaculty(t *testing.T) {
	cat := NewStaticCatalog()

	_, err := cat.ModulesForFaculty(context.Background(), Faculty("Faculty of Alchemy"))
	assert.ErrorIs(t, err, shared.ErrFacultyUnknown)

	_, err = cat.ProgramsForFaculty(context.Background(), Faculty(""))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestStaticCatalog_ReturnsCopies(t *testing.T) {
	cat := NewStaticCatalog()
	ctx := context.Background()

	first, err := cat.ModulesForFaculty(ctx, FacultyInformationTech)
	require.NoError(t, err)
	first[0].Name = "tampered"

	second, err := cat.ModulesForFaculty(ctx, FacultyInformationTech)
	require.NoError(t, err)
	assert.Equal(t, "Software Engineering", second[0].Name)
}

func TestModuleValidate(t *testing.T) {
	valid := Module{ID: "1", Code: "BIT201", Name: "Software Engineering", Credits: 4}
	assert.NoError(t, valid.Validate())

	assert.Error(t, Module{Code: "BIT201", Name: "x", Credits: 4}.Validate())
	assert.Error(t, Module{ID: "1", Name: "x", Credits: 4}.Validate())
	assert.Error(t, Module{ID: "1", Code: "BIT201", Name: "x", Credits: 0}.Validate())
	assert.Error(t, Module{ID: "1", Code: "BIT201", Name: "x", Credits: -1}.Validate())
}

func TestFacultyIsValid(t *testing.T) {
	for _, f := range Faculties() {
		assert.True(t, f.IsValid())
	}
	assert.False(t, Faculty("").IsValid())
	assert.False(t, Faculty("Faculty of Alchemy").IsValid())
}
