package testutil

import (
	"context"
	"io"
	"net/mail"
	"path/filepath"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/grade"
	"github.com/trezcool/masomo-bulletin/core/school"
	"github.com/trezcool/masomo-bulletin/core/user"
	"github.com/trezcool/masomo-bulletin/fs"
	logsvc "github.com/trezcool/masomo-bulletin/services/logger"
	"github.com/trezcool/masomo-bulletin/storage/database"
)

// NewConfig returns the configuration used by tests: sqlite, test mode, default ranking policies.
func NewConfig() *core.Config {
	return &core.Config{
		Env:              "TEST",
		TestMode:         true,
		AppName:          "Masomo",
		SecretKey:        "test-secret-key",
		DefaultFromEmail: mail.Address{Name: "Masomo", Address: "noreply@test.cd"},
		FrontendBaseURL:  "http://localhost:3000",
		Build:            "test",
		Server: core.ServerConfig{
			Host:                      "localhost",
			DisableReqLogs:            true,
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 24 * time.Hour,
		},
		Database: core.DatabaseConfig{Engine: core.EngineSQLite},
		Bulletin: core.BulletinConfig{
			RankScope: core.RankScopeBatch,
			ClassSize: core.ClassSizeRoster,
		},
	}
}

// NewValidator returns a validator with every custom validator registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)
	school.InitValidators(validate, translator)
	return validate, translator
}

// NewLogger returns a logger writing nowhere.
func NewLogger(conf *core.Config) core.Logger {
	return logsvc.New(io.Discard, "TEST : ", conf)
}

// ParseEmailTemplates loads the embedded email templates.
func ParseEmailTemplates(conf *core.Config) {
	core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf, NewLogger(conf))
}

// PrepareDB opens a migrated sqlite database living in the test's temp dir. It is closed when the test ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conf := NewConfig()
	conf.Database.Path = filepath.Join(t.TempDir(), "test.db")

	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateClass(t *testing.T, repo school.Repository, name string) school.Class {
	t.Helper()

	class, err := repo.CreateClass(context.Background(), school.Class{Name: name, CreatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return class
}

// CreateStudent enrols a student. userID may be empty for a student without portal account.
func CreateStudent(t *testing.T, repo school.Repository, classID, userID, fullName, matricule string) school.Student {
	t.Helper()

	student, err := repo.CreateStudent(context.Background(), school.Student{
		UserID:    userID,
		ClassID:   classID,
		FullName:  fullName,
		Matricule: matricule,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return student
}

func CreateSubject(t *testing.T, repo school.Repository, name, classID, teacherID string) school.Subject {
	t.Helper()

	subject, err := repo.CreateSubject(context.Background(), school.Subject{
		Name:      name,
		ClassID:   classID,
		TeacherID: teacherID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return subject
}

// CreateGrades records an "examen" grade per value, in order.
func CreateGrades(t *testing.T, repo grade.Repository, studentID, subjectID string, period school.Period, values ...float64) []grade.Grade {
	t.Helper()

	grades := make([]grade.Grade, 0, len(values))
	for _, v := range values {
		g, err := repo.CreateGrade(context.Background(), grade.Grade{
			StudentID:  studentID,
			SubjectID:  subjectID,
			Period:     period,
			Value:      v,
			Kind:       grade.KindExamen,
			RecordedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("CreateGrades() failed: %v", err)
		}
		grades = append(grades, g)
	}
	return grades
}
