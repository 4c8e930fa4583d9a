package echoapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-bulletin/apps/api/echo"
	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/user"
	"github.com/trezcool/masomo-bulletin/testutil"
)

func Test_userApi_login(t *testing.T) {
	e := setup(t)

	testutil.CreateUser(t, e.usrRepo, "Amani Kasongo", "amani", "amani@test.cd", "Lubumba$hi99", []string{user.RoleStudent}, true)
	testutil.CreateUser(t, e.usrRepo, "N Dog", "ndog", "ndog@test.cd", "Kin$hasa2024", []string{user.RoleStudent}, false)

	authFailed := marshallObj(t, httpErr{Error: "authentication failed"})

	tests := []struct {
		name      string
		body      echoapi.LoginRequest
		wantCode  int
		wantData  []byte
		wantToken bool
	}{
		{name: "required fields", wantCode: http.StatusBadRequest},
		{name: "unknown user", body: echoapi.LoginRequest{Username: "lol", Password: "Lubumba$hi99"}, wantCode: http.StatusBadRequest, wantData: authFailed},
		{name: "wrong password", body: echoapi.LoginRequest{Username: "amani", Password: "lol"}, wantCode: http.StatusBadRequest, wantData: authFailed},
		{
			name: "inactive user", body: echoapi.LoginRequest{Username: "ndog", Password: "Kin$hasa2024"},
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "by username", body: echoapi.LoginRequest{Username: " AMANI ", Password: "Lubumba$hi99"}, wantCode: http.StatusOK, wantToken: true},
		{name: "by email", body: echoapi.LoginRequest{Username: "amani@test.cd", Password: "Lubumba$hi99"}, wantCode: http.StatusOK, wantToken: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.serve(httpTest{method: http.MethodPost, path: "/v1/users/login", body: marshallObj(t, tt.body)})
			if !tt.wantToken {
				checkCodeAndData(t, httpTest{wantCode: tt.wantCode, wantData: tt.wantData}, rec)
				return
			}

			require.Equal(t, tt.wantCode, rec.Code)
			var resp echoapi.LoginResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Token)
		})
	}

	t.Run("last login is set", func(t *testing.T) {
		usr, err := e.usrRepo.GetUserByUsernameOrEmail(context.Background(), "amani")
		require.NoError(t, err)
		assert.False(t, usr.LastLogin.IsZero())
	})
}

func Test_userApi_loginRateLimit(t *testing.T) {
	e := setup(t, func(conf *core.Config) { conf.Server.LoginRateLimit = 2 })

	body := marshallObj(t, echoapi.LoginRequest{Username: "lol", Password: "lol"})
	for i := 0; i < 2; i++ {
		rec := e.serve(httpTest{method: http.MethodPost, path: "/v1/users/login", body: body})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	rec := e.serve(httpTest{method: http.MethodPost, path: "/v1/users/login", body: body})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func Test_userApi_refreshToken(t *testing.T) {
	e := setup(t)

	naughty := testutil.CreateUser(t, e.usrRepo, "N Dog", "ndog", "ndog@test.cd", "", []string{user.RoleStudent}, false)
	student := testutil.CreateUser(t, e.usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)

	now := time.Now()
	unrefreshableClaims := &echoapi.Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    e.conf.AppName,
			Subject:   student.ID,
			Audience:  "Academia",
			ExpiresAt: now.Add(e.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		OrigIssuedAt: now.Add(-2 * e.conf.Server.JWTRefreshExpirationDelta).Unix(), // older than threshold
		IsStudent:    student.IsStudent(),
		Roles:        student.Roles,
	}
	unrefreshableToken, err := echoapi.GenerateToken(unrefreshableClaims, e.conf)
	require.NoError(t, err)

	expiredClaims := echoapi.GetUserClaims(student, e.conf)
	expiredClaims.ExpiresAt = now.Add(-time.Minute).Unix()
	expiredToken, err := echoapi.GenerateToken(expiredClaims, e.conf)
	require.NoError(t, err)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{name: "Expired token", token: expiredToken, wantCode: http.StatusUnauthorized},
		{name: "Inactive user not allowed", token: e.getToken(t, naughty), wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "account deactivated"})},
		{name: "Refresh period expired", token: unrefreshableToken, wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "refresh has expired"})},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/v1/users/token-refresh"
	}
	runHTTPTests(t, e, tests)

	t.Run("Token refreshed", func(t *testing.T) {
		rec := e.serve(httpTest{method: http.MethodPost, path: "/v1/users/token-refresh", token: e.getToken(t, student)})
		require.Equal(t, http.StatusOK, rec.Code)

		// cannot guess new token.. just check that it's not empty
		var resp echoapi.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
	})
}
