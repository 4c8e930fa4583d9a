package grade

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/school"
)

// Evaluation kinds
const (
	KindInterrogation = "interrogation"
	KindDevoir        = "devoir"
	KindExamen        = "examen"
)

// Grade is a single score in [0,20] for one student, subject and period.
type Grade struct {
	ID          string        `json:"id"`
	StudentID   string        `json:"student_id"`
	SubjectID   string        `json:"subject_id"`
	SubjectName string        `json:"subject_name,omitempty"`
	Period      school.Period `json:"period"`
	Value       float64       `json:"value"`
	Kind        string        `json:"kind"`
	Comment     string        `json:"comment,omitempty"`
	RecordedBy  string        `json:"recorded_by"`
	RecordedAt  time.Time     `json:"recorded_at"` // UTC
}

// Values returns the scores of grades, in order.
func Values(grades []Grade) []float64 {
	values := make([]float64, 0, len(grades))
	for _, g := range grades {
		values = append(values, g.Value)
	}
	return values
}

// NewGrade contains information needed to record a Grade.
type NewGrade struct {
	StudentID string        `json:"student_id" validate:"required"`
	SubjectID string        `json:"subject_id" validate:"required"`
	Period    school.Period `json:"period" validate:"required,period"`
	Value     float64       `json:"value" validate:"gte=0,lte=20"`
	Kind      string        `json:"kind" validate:"required,oneof=interrogation devoir examen"`
	Comment   string        `json:"comment" validate:"max=500"`
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	ng.Period = school.Period(core.CleanString(string(ng.Period), true /* lower */))
	ng.Kind = core.CleanString(ng.Kind, true /* lower */)
	ng.Comment = core.CleanString(ng.Comment)
	return validate.Struct(ng)
}
