package school_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/school"
	inmemdb "github.com/trezcool/masomo-bulletin/storage/database/inmem"
	"github.com/trezcool/masomo-bulletin/testutil"
)

type recordingRemover struct {
	name  string
	calls *[]string
	err   error
}

func (rm recordingRemover) DeleteForStudent(_ context.Context, studentID string) error {
	*rm.calls = append(*rm.calls, rm.name+":"+studentID)
	return rm.err
}

func newService(t *testing.T) *school.Service {
	validate, _ := testutil.NewValidator()
	return school.NewService(inmemdb.NewSchoolRepository(inmemdb.Open()), validate)
}

func TestService_classes(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.CreateClass(ctx, "   ")
	assert.IsType(t, &core.ValidationError{}, err)

	class, err := svc.CreateClass(ctx, " 6ème A ")
	require.NoError(t, err)
	assert.Equal(t, "6ème A", class.Name)

	got, err := svc.GetClass(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, class, got)

	_, err = svc.ClassStudents(ctx, "lol")
	assert.Equal(t, school.ErrClassNotFound, err)

	subject, err := svc.CreateSubject(ctx, "Physique", class.ID, "teacher-1")
	require.NoError(t, err)
	assert.True(t, subject.IsTaughtBy("teacher-1"))
	assert.False(t, subject.IsTaughtBy(""))
	_, err = svc.CreateSubject(ctx, "", class.ID, "")
	assert.IsType(t, &core.ValidationError{}, err)
}

func TestService_Enrol(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	class, err := svc.CreateClass(ctx, "6ème A")
	require.NoError(t, err)

	amani, err := svc.Enrol(ctx, school.NewStudent{ClassID: class.ID, FullName: " Amani Kasongo", Matricule: "MAT-001 "})
	require.NoError(t, err)
	assert.Equal(t, "Amani Kasongo", amani.FullName)
	assert.Equal(t, "MAT-001", amani.Matricule)
	assert.False(t, amani.HasAccount())

	bora, err := svc.Enrol(ctx, school.NewStudent{ClassID: class.ID, UserID: "user-1", FullName: "Bora Mukendi", Matricule: "MAT-002"})
	require.NoError(t, err)
	assert.True(t, bora.HasAccount())

	t.Run("invalid", func(t *testing.T) {
		_, err := svc.Enrol(ctx, school.NewStudent{ClassID: class.ID})
		if assert.IsType(t, validator.ValidationErrors{}, err) {
			assert.Len(t, err.(validator.ValidationErrors), 2)
		}
	})

	t.Run("unknown class", func(t *testing.T) {
		_, err := svc.Enrol(ctx, school.NewStudent{ClassID: "lol", FullName: "Chance Ilunga", Matricule: "MAT-003"})
		assert.Equal(t, school.ErrClassNotFound, err)
	})

	t.Run("duplicate matricule", func(t *testing.T) {
		_, err := svc.Enrol(ctx, school.NewStudent{ClassID: class.ID, FullName: "Chance Ilunga", Matricule: "MAT-001"})
		var vErr *core.ValidationError
		if assert.True(t, errors.As(err, &vErr)) {
			assert.Contains(t, vErr.FieldMap(), "matricule")
		}
	})

	t.Run("roster", func(t *testing.T) {
		roster, err := svc.ClassStudents(ctx, class.ID)
		require.NoError(t, err)
		assert.Equal(t, []school.Student{amani, bora}, roster)

		got, err := svc.GetStudentByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, bora.ID, got.ID)
		_, err = svc.GetStudentByUserID(ctx, "")
		assert.Equal(t, school.ErrStudentNotFound, err)
	})
}

func TestService_RemoveStudent(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	var calls []string
	svc.RegisterRemovers(
		recordingRemover{name: "report cards", calls: &calls},
		recordingRemover{name: "grades", calls: &calls},
	)

	s, err := svc.Enrol(ctx, school.NewStudent{FullName: "Amani Kasongo", Matricule: "MAT-001"})
	require.NoError(t, err)

	assert.Equal(t, school.ErrStudentNotFound, svc.RemoveStudent(ctx, "lol"))
	assert.Empty(t, calls)

	require.NoError(t, svc.RemoveStudent(ctx, s.ID))
	assert.Equal(t, []string{"report cards:" + s.ID, "grades:" + s.ID}, calls)
	_, err = svc.GetStudent(ctx, s.ID)
	assert.Equal(t, school.ErrStudentNotFound, err)
}

func TestService_RemoveStudent_removerFails(t *testing.T) {
	ctx := context.Background()
	var calls []string
	boom := errors.New("boom")
	validate, _ := testutil.NewValidator()
	svc := school.NewService(
		inmemdb.NewSchoolRepository(inmemdb.Open()), validate,
		recordingRemover{name: "report cards", calls: &calls, err: boom},
		recordingRemover{name: "grades", calls: &calls},
	)

	s, err := svc.Enrol(ctx, school.NewStudent{FullName: "Amani Kasongo", Matricule: "MAT-001"})
	require.NoError(t, err)

	err = svc.RemoveStudent(ctx, s.ID)
	assert.Equal(t, boom, errors.Cause(err))
	assert.Len(t, calls, 1)

	_, err = svc.GetStudent(ctx, s.ID)
	assert.NoError(t, err)
}

func TestPeriod(t *testing.T) {
	assert.True(t, school.Period2.IsValid())
	assert.False(t, school.Period("trimestre_4").IsValid())
	assert.Equal(t, "2ème Trimestre", school.Period2.Label())
	assert.Equal(t, "lol", school.Period("lol").Label())
}
