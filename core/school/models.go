package school

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-bulletin/core"
)

type Class struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Student is an enrolled pupil. UserID links the student portal account, when there is one.
type Student struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ClassID   string    `json:"class_id"`
	FullName  string    `json:"full_name"`
	Matricule string    `json:"matricule"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

func (s Student) HasAccount() bool { return s.UserID != "" }

// Subject is taught by a single teacher, who is the only one allowed to grade it.
type Subject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ClassID   string    `json:"class_id"`
	TeacherID string    `json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

func (s Subject) IsTaughtBy(userID string) bool {
	return s.TeacherID != "" && s.TeacherID == userID
}

type NewStudent struct {
	UserID    string `json:"user_id"`
	ClassID   string `json:"class_id"`
	FullName  string `json:"full_name" validate:"required"`
	Matricule string `json:"matricule" validate:"required,max=50"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.FullName = core.CleanString(ns.FullName)
	ns.Matricule = core.CleanString(ns.Matricule)
	return validate.Struct(ns)
}
