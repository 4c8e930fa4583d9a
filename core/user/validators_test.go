package user

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-bulletin/core"
)

func Test_passwordPolicyViolation(t *testing.T) {
	tests := []struct {
		name    string
		pwd     string
		wantTag string
	}{
		{name: "too short", pwd: "Ab1$", wantTag: pwdMinLenTag},
		{name: "whitespace", pwd: "Kin hasa$2024", wantTag: pwdNoSpaceTag},
		{name: "all numeric", pwd: "2023202420", wantTag: pwdNotAllNumTag},
		{name: "no upper", pwd: "kin$hasa2024", wantTag: pwdComplexityTag},
		{name: "no special", pwd: "Kinshasa2024", wantTag: pwdComplexityTag},
		{name: "no digit", pwd: "Kin$hasaaaaa", wantTag: pwdComplexityTag},
		{name: "similar to name", pwd: "Kasongo$1", wantTag: pwdAttrSimTag},
		{name: "similar to username", pwd: "Amanik$1", wantTag: pwdAttrSimTag},
		{name: "valid", pwd: "Lubumba$hi99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := passwordPolicyViolation(tt.pwd, "Kasongo", "amanik", "")
			assert.Equal(t, tt.wantTag, got)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	usr := User{Name: "Amani Kasongo", Username: "amani", Email: "amani@test.cd"}

	err := ValidatePassword("short", usr)
	if assert.IsType(t, &core.ValidationError{}, err) {
		assert.Equal(t, map[string]string{"password": pwdMinLenText}, err.(*core.ValidationError).FieldMap())
	}
	assert.NoError(t, ValidatePassword("Lubumba$hi99", usr))
}

func TestNewUser_validation(t *testing.T) {
	validate, translator := core.NewValidator()
	InitValidators(validate, translator)

	tests := []struct {
		name        string
		nu          NewUser
		wantFldErrs map[string]string
	}{
		{
			name: "valid",
			nu: NewUser{
				Name: "Amani Kasongo", Username: "amani", Password: "Lubumba$hi99", PasswordConfirm: "Lubumba$hi99",
				Roles: []string{RoleStudent},
			},
		},
		{
			name: "username or email required",
			nu:   NewUser{Name: "Amani Kasongo", Password: "Lubumba$hi99", PasswordConfirm: "Lubumba$hi99"},
			wantFldErrs: map[string]string{
				"username": usernameOrEmailText,
				"email":    usernameOrEmailText,
			},
		},
		{
			name: "passwords mismatch",
			nu:   NewUser{Name: "Amani Kasongo", Email: "amani@test.cd", Password: "Lubumba$hi99", PasswordConfirm: "Lubumba$hi98"},
			wantFldErrs: map[string]string{
				"password_confirm": "password_confirm must be equal to Password",
			},
		},
		{
			name: "invalid roles",
			nu: NewUser{
				Name: "Amani Kasongo", Email: "amani@test.cd", Password: "Lubumba$hi99", PasswordConfirm: "Lubumba$hi99",
				Roles: []string{RoleStudent, "parent:"},
			},
			wantFldErrs: map[string]string{"roles": allRolesText},
		},
		{
			name: "weak password",
			nu:   NewUser{Name: "Amani Kasongo", Email: "amani@test.cd", Password: "amani", PasswordConfirm: "amani"},
			wantFldErrs: map[string]string{"password": pwdMinLenText},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.nu)
			if tt.wantFldErrs == nil {
				assert.NoError(t, err)
				return
			}
			if assert.IsType(t, validator.ValidationErrors{}, err) {
				assert.Equal(t, tt.wantFldErrs, core.TranslateErrors(err.(validator.ValidationErrors), translator))
			}
		})
	}
}

func TestUser_roles(t *testing.T) {
	admin := User{Roles: []string{RoleAdminPrincipal}}
	teacher := User{Roles: []string{RoleTeacher}}
	student := User{Roles: []string{RoleStudent}}

	assert.True(t, admin.IsAdmin())
	assert.False(t, admin.IsTeacher())
	assert.True(t, teacher.IsTeacher())
	assert.False(t, teacher.IsStudent())
	assert.True(t, student.IsStudent())
	assert.False(t, student.IsAdmin())

	assert.Equal(t, 29, MaxRolePriority(append(student.Roles, RoleAdminPrincipal)))
	assert.Zero(t, MaxRolePriority(nil))
}
