package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/trezcool/masomo-bulletin/apps/api/echo"
	"github.com/trezcool/masomo-bulletin/apps/shared"
	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/grade"
	"github.com/trezcool/masomo-bulletin/core/school"
	"github.com/trezcool/masomo-bulletin/core/user"
	emailsvc "github.com/trezcool/masomo-bulletin/services/email"
	"github.com/trezcool/masomo-bulletin/storage/database/sqlxrepos"
	"github.com/trezcool/masomo-bulletin/testutil"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type env struct {
	conf       *core.Config
	app        echoapi.Server
	svcs       *shared.Services
	usrRepo    user.Repository
	schoolRepo school.Repository
	gradeRepo  grade.Repository
}

func setup(t *testing.T, confFns ...func(conf *core.Config)) env {
	conf := testutil.NewConfig()
	for _, fn := range confFns {
		fn(conf)
	}
	testutil.ParseEmailTemplates(conf)
	logger := testutil.NewLogger(conf)
	validate, translator := testutil.NewValidator()

	// set up DB & services
	db := testutil.PrepareDB(t)
	svcs := shared.NewServices(db, conf, logger, emailsvc.NewConsoleServiceMock(conf), validate)

	// set up server
	app := echoapi.NewServer(echoapi.ServerDeps{
		Conf:            conf,
		Logger:          logger,
		UserSvc:         svcs.User,
		SchoolSvc:       svcs.School,
		GradeSvc:        svcs.Grade,
		BulletinSvc:     svcs.Bulletin,
		NotificationSvc: svcs.Notification,
		Validate:        validate,
		Translator:      translator,
	})

	return env{
		conf:       conf,
		app:        app,
		svcs:       svcs,
		usrRepo:    sqlxrepos.NewUserRepository(db),
		schoolRepo: sqlxrepos.NewSchoolRepository(db),
		gradeRepo:  sqlxrepos.NewGradeRepository(db),
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte // not checked when nil
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func (e env) serve(tt httpTest) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	e.app.ServeHTTP(rec, req)
	return rec
}

func (e env) getToken(t *testing.T, usr user.User) string {
	token, err := echoapi.GenerateToken(echoapi.GetUserClaims(usr, e.conf), e.conf)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func marshallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %v", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, e env, tests []httpTest) {
	t.Helper()

	for _, tt := range tests {
		if tt.method == "" {
			tt.method = http.MethodGet
		}
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, e.serve(tt))
		})
	}
}

func Test_home(t *testing.T) {
	e := setup(t)
	rec := e.serve(httpTest{method: http.MethodGet, path: "/"})
	if rec.Code != http.StatusOK {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
	}
}
