package echoapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-bulletin/core/bulletin"
	"github.com/trezcool/masomo-bulletin/core/grade"
	"github.com/trezcool/masomo-bulletin/core/notification"
	"github.com/trezcool/masomo-bulletin/core/school"
	"github.com/trezcool/masomo-bulletin/core/user"
	"github.com/trezcool/masomo-bulletin/testutil"
)

func Test_gradeApi_create(t *testing.T) {
	e := setup(t)
	fx := newClassFixture(t, e)
	ctx := context.Background()

	otherTeacher := testutil.CreateUser(t, e.usrRepo, "Autre", "autre", "autre@test.cd", "", []string{user.RoleTeacher}, true)
	body := func(ng grade.NewGrade) []byte { return marshallObj(t, ng) }
	valid := grade.NewGrade{StudentID: fx.amani.ID, SubjectID: fx.subject.ID, Period: school.Period2, Value: 16.5, Kind: grade.KindDevoir}

	invalidValue := valid
	invalidValue.Value = 25
	invalidKind := valid
	invalidKind.Kind = "lol"
	unknownSubject := valid
	unknownSubject.SubjectID = uuid.New().String()
	unknownStudent := valid
	unknownStudent.StudentID = uuid.New().String()

	runHTTPTests(t, e, []httpTest{
		{name: "Auth required", method: http.MethodPost, path: "/v1/grades", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "Teacher required", method: http.MethodPost, path: "/v1/grades", body: body(valid), token: fx.adminToken,
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "value out of range", method: http.MethodPost, path: "/v1/grades", body: body(invalidValue), token: fx.teacherToken, wantCode: http.StatusBadRequest},
		{name: "unknown kind", method: http.MethodPost, path: "/v1/grades", body: body(invalidKind), token: fx.teacherToken, wantCode: http.StatusBadRequest},
		{
			name: "unknown subject", method: http.MethodPost, path: "/v1/grades", body: body(unknownSubject), token: fx.teacherToken,
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "subject not found"}),
		},
		{
			name: "not the subject's teacher", method: http.MethodPost, path: "/v1/grades", body: body(valid), token: e.getToken(t, otherTeacher),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: grade.ErrUnauthorizedSubject.Error()}),
		},
		{
			name: "unknown student", method: http.MethodPost, path: "/v1/grades", body: body(unknownStudent), token: fx.teacherToken,
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "student not found"}),
		},
	})

	t.Run("recorded", func(t *testing.T) {
		rec := e.serve(httpTest{method: http.MethodPost, path: "/v1/grades", body: body(valid), token: fx.teacherToken})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var g grade.Grade
		decode(t, rec.Body.Bytes(), &g)
		assert.NotEmpty(t, g.ID)
		assert.Equal(t, 16.5, g.Value)
		assert.Equal(t, "Mathématiques", g.SubjectName)
		assert.Equal(t, fx.teacher.ID, g.RecordedBy)

		grades, err := e.svcs.Grade.StudentGrades(ctx, fx.amani.ID, school.Period2)
		require.NoError(t, err)
		require.Len(t, grades, 1)
		assert.Equal(t, g.ID, grades[0].ID)

		notifs, err := e.svcs.Notification.Query(ctx, fx.amaniUsr.ID, notification.QueryFilter{})
		require.NoError(t, err)
		require.Len(t, notifs, 1)
		assert.Equal(t, notification.CategoryNote, notifs[0].Category)
		assert.JSONEq(t, `{"matiere": "Mathématiques", "note_id": "`+g.ID+`", "valeur": 16.5}`, string(notifs[0].Payload))
	})
}

func Test_studentApi_destroy(t *testing.T) {
	e := setup(t)
	fx := newClassFixture(t, e)
	_, bora := fx.generateClass(t, e)
	ctx := context.Background()

	runHTTPTests(t, e, []httpTest{
		{name: "Auth required", method: http.MethodDelete, path: "/v1/students/" + fx.bora.ID, wantCode: http.StatusUnauthorized},
		{name: "Admin required", method: http.MethodDelete, path: "/v1/students/" + fx.bora.ID, token: fx.teacherToken, wantCode: http.StatusForbidden},
		{
			name: "unknown", method: http.MethodDelete, path: "/v1/students/" + uuid.New().String(), token: fx.adminToken,
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "student not found"}),
		},
	})

	t.Run("deleted with its records", func(t *testing.T) {
		rec := e.serve(httpTest{method: http.MethodDelete, path: "/v1/students/" + fx.bora.ID, token: fx.adminToken})
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		_, err := e.svcs.School.GetStudent(ctx, fx.bora.ID)
		assert.Equal(t, school.ErrStudentNotFound, err)
		_, err = e.svcs.Bulletin.Get(ctx, bora.ID)
		assert.Equal(t, bulletin.ErrNotFound, err)
		grades, err := e.svcs.Grade.StudentGrades(ctx, fx.bora.ID, school.Period1)
		require.NoError(t, err)
		assert.Empty(t, grades)

		roster, err := e.svcs.School.ClassStudents(ctx, fx.class.ID)
		require.NoError(t, err)
		assert.Len(t, roster, 2)
	})
}
