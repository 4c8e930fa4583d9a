package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/user"
	inmemdb "github.com/trezcool/masomo-bulletin/storage/database/inmem"
	"github.com/trezcool/masomo-bulletin/testutil"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewUserRepository(inmemdb.Open())
	svc := user.NewService(repo)
	validate, _ := testutil.NewValidator()

	now := time.Date(2024, time.January, 8, 7, 30, 0, 0, time.UTC)
	user.NowFunc = func() time.Time { return now }
	defer func() { user.NowFunc = time.Now }()

	nu := user.NewUser{
		Name:            "  Amani Kasongo ",
		Username:        "Amani",
		Email:           "AMANI@test.cd",
		Password:        "Lubumba$hi99",
		PasswordConfirm: "Lubumba$hi99",
		Roles:           []string{user.RoleStudent},
	}
	require.NoError(t, nu.Validate(ctx, validate, svc))
	usr, err := svc.Create(ctx, nu)
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.Equal(t, "Amani Kasongo", usr.Name)
	assert.Equal(t, "amani", usr.Username)
	assert.Equal(t, "amani@test.cd", usr.Email)
	assert.True(t, usr.IsActive)
	assert.Equal(t, now, usr.CreatedAt)
	assert.NoError(t, usr.CheckPassword("Lubumba$hi99"))

	t.Run("uniqueness", func(t *testing.T) {
		dup := user.NewUser{Name: "Other", Username: "amani", Password: "Kin$hasa2024", PasswordConfirm: "Kin$hasa2024"}
		err := dup.Validate(ctx, validate, svc)
		if assert.IsType(t, &core.ValidationError{}, err) {
			assert.Equal(t, map[string]string{"username": user.ErrUsernameExists.Error()}, err.(*core.ValidationError).FieldMap())
		}

		dup = user.NewUser{Name: "Other", Email: "amani@TEST.cd", Password: "Kin$hasa2024", PasswordConfirm: "Kin$hasa2024"}
		err = dup.Validate(ctx, validate, svc)
		if assert.IsType(t, &core.ValidationError{}, err) {
			assert.Equal(t, map[string]string{"email": user.ErrEmailExists.Error()}, err.(*core.ValidationError).FieldMap())
		}
	})

	t.Run("get", func(t *testing.T) {
		got, err := svc.GetByUsernameOrEmail(ctx, " AMANI@test.cd")
		require.NoError(t, err)
		assert.Equal(t, usr.ID, got.ID)

		got, err = svc.GetByID(ctx, usr.ID)
		require.NoError(t, err)
		assert.Equal(t, usr.Username, got.Username)

		_, err = svc.GetByUsernameOrEmail(ctx, "")
		assert.Equal(t, user.ErrNotFound, err)
		_, err = svc.GetByID(ctx, "lol")
		assert.Equal(t, user.ErrNotFound, err)
	})

	t.Run("last login", func(t *testing.T) {
		got, err := svc.SetLastLogin(ctx, usr)
		require.NoError(t, err)
		assert.Equal(t, now, got.LastLogin)
	})

	t.Run("set password", func(t *testing.T) {
		_, err := svc.SetPassword(ctx, "amani", "weak")
		assert.IsType(t, &core.ValidationError{}, err)

		_, err = svc.SetPassword(ctx, "nobody", "Kin$hasa2024")
		assert.Equal(t, user.ErrNotFound, err)

		got, err := svc.SetPassword(ctx, "amani", "Kin$hasa2024")
		require.NoError(t, err)
		assert.NoError(t, got.CheckPassword("Kin$hasa2024"))
		assert.Error(t, got.CheckPassword("Lubumba$hi99"))
	})
}
