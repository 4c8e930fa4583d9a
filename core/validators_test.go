package core

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsAcademicYear(t *testing.T) {
	tests := []struct {
		year string
		want bool
	}{
		{year: "2023-2024", want: true},
		{year: "1999-2000", want: true},
		{year: "2023-2023"},
		{year: "2024-2023"},
		{year: "2023-2025"},
		{year: "2023/2024"},
		{year: "23-24"},
		{year: " 2023-2024"},
		{year: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsAcademicYear(tt.year), "IsAcademicYear(%q)", tt.year)
	}
}

func TestNewValidator_academicYear(t *testing.T) {
	validate, translator := NewValidator()

	type payload struct {
		Year string `json:"academic_year" validate:"required,academic_year"`
	}
	assert.NoError(t, validate.Struct(payload{Year: "2023-2024"}))

	err := validate.Struct(payload{Year: "2023"})
	if assert.IsType(t, validator.ValidationErrors{}, err) {
		fldErrs := TranslateErrors(err.(validator.ValidationErrors), translator)
		assert.Equal(t, map[string]string{"academic_year": academicYearText}, fldErrs)
	}

	err = validate.Struct(payload{})
	if assert.IsType(t, validator.ValidationErrors{}, err) {
		fldErrs := TranslateErrors(err.(validator.ValidationErrors), translator)
		assert.Equal(t, map[string]string{"academic_year": requiredText}, fldErrs)
	}
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Amani Kasongo", CleanString("  Amani Kasongo \n"))
	assert.Equal(t, "amani@test.cd", CleanString(" AMANI@test.cd ", true))
	assert.Equal(t, "", CleanString("   "))
}

func TestDBOrdering_String(t *testing.T) {
	assert.Equal(t, "average DESC", DBOrdering{Field: "average"}.String())
	assert.Equal(t, "rank ASC", DBOrdering{Field: "rank", Ascending: true}.String())
}

func TestValidationError(t *testing.T) {
	err := NewFieldError("matricule", "already taken")
	assert.Equal(t, "matricule: already taken", err.Error())

	var vErr *ValidationError
	if assert.True(t, errors.As(errors.Wrap(err, "enrolling"), &vErr)) {
		assert.Equal(t, map[string]string{"matricule": "already taken"}, vErr.FieldMap())
	}

	assert.Equal(t, "validation failed", ValidationError{}.Error())
	assert.Nil(t, ValidationError{}.FieldMap())
}

func TestShutdownError(t *testing.T) {
	err := NewShutdownError("integrity issue")
	assert.True(t, IsShutdown(err))
	assert.True(t, IsShutdown(errors.Wrap(err, "serving")))
	assert.False(t, IsShutdown(errors.New("integrity issue")))
}
