package bulletin

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/grade"
	"github.com/trezcool/masomo-bulletin/core/school"
)

// ReportCard (bulletin) summarises the grades of a student for one period of an academic year.
// There is at most one ReportCard per (StudentID, Period, AcademicYear).
type ReportCard struct {
	ID           string        `json:"id"`
	StudentID    string        `json:"student_id"`
	StudentName  string        `json:"student_name,omitempty"`
	Matricule    string        `json:"matricule,omitempty"`
	ClassID      string        `json:"class_id,omitempty"`
	Period       school.Period `json:"period"`
	AcademicYear string        `json:"academic_year"`
	Average      float64       `json:"average"`
	Mention      Mention       `json:"mention"`
	Rank         int           `json:"rank"`
	ClassSize    int           `json:"class_size"`
	Published    bool          `json:"published"`
	Comment      *string       `json:"comment"`
	CreatedAt    time.Time     `json:"created_at"` // UTC
	UpdatedAt    time.Time     `json:"updated_at"` // UTC
}

// AverageLabel formats the average on the 20 points scale, e.g. "15.00/20".
func (rc ReportCard) AverageLabel() string {
	return fmt.Sprintf("%.2f/20", rc.Average)
}

// RankLabel formats the rank within the class, e.g. "1/32".
func (rc ReportCard) RankLabel() string {
	return fmt.Sprintf("%d/%d", rc.Rank, rc.ClassSize)
}

// NewReportCard contains information needed to generate a single ReportCard.
type NewReportCard struct {
	StudentID    string        `json:"student_id" validate:"required"`
	Period       school.Period `json:"period" validate:"required,period"`
	AcademicYear string        `json:"academic_year" validate:"required,academic_year"`
	Comment      *string       `json:"comment" validate:"omitempty,max=1000"`
}

func (nrc *NewReportCard) Validate(validate *validator.Validate) error {
	nrc.StudentID = core.CleanString(nrc.StudentID)
	nrc.Period = school.Period(core.CleanString(string(nrc.Period), true /* lower */))
	nrc.AcademicYear = core.CleanString(nrc.AcademicYear)
	nrc.Comment = cleanComment(nrc.Comment)
	return validate.Struct(nrc)
}

// ClassBatch contains information needed to generate the report cards of a whole class.
type ClassBatch struct {
	ClassID      string        `json:"class_id" validate:"required"`
	Period       school.Period `json:"period" validate:"required,period"`
	AcademicYear string        `json:"academic_year" validate:"required,academic_year"`
}

func (cb *ClassBatch) Validate(validate *validator.Validate) error {
	cb.ClassID = core.CleanString(cb.ClassID)
	cb.Period = school.Period(core.CleanString(string(cb.Period), true /* lower */))
	cb.AcademicYear = core.CleanString(cb.AcademicYear)
	return validate.Struct(cb)
}

// UpdateReportCard defines what may be changed on an existing ReportCard.
// The published flag is only ever changed by Publish.
type UpdateReportCard struct {
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

func (urc *UpdateReportCard) Validate(validate *validator.Validate) error {
	urc.Comment = cleanComment(urc.Comment)
	return validate.Struct(urc)
}

func cleanComment(comment *string) *string {
	if comment == nil {
		return nil
	}
	c := core.CleanString(*comment)
	if c == "" {
		return nil
	}
	return &c
}

type QueryFilter struct {
	StudentID    string        `query:"student_id"`
	ClassID      string        `query:"class_id"`
	Period       school.Period `query:"period"`
	AcademicYear string        `query:"academic_year"`
	Published    *bool         `query:"published"`
	// Search does a case-insensitive match on the student's full name or matricule.
	Search string `query:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.StudentID = core.CleanString(qf.StudentID)
	qf.ClassID = core.CleanString(qf.ClassID)
	qf.Period = school.Period(core.CleanString(string(qf.Period), true /* lower */))
	qf.AcademicYear = core.CleanString(qf.AcademicYear)
	qf.Search = core.CleanString(qf.Search)
}

// SubjectGrades groups the grades of a report card by subject.
type SubjectGrades struct {
	SubjectID string        `json:"subject_id"`
	Subject   string        `json:"subject"`
	Average   float64       `json:"average"`
	Grades    []grade.Grade `json:"grades"`
}

// Detail is a ReportCard along with the grades it was computed from.
type Detail struct {
	ReportCard
	Subjects []SubjectGrades `json:"subjects"`
}

// PDFDocument describes the printable version of a ReportCard.
// URL stays nil until a renderer is plugged in.
type PDFDocument struct {
	Detail
	AverageLabel string  `json:"average_label"`
	RankLabel    string  `json:"rank_label"`
	PeriodLabel  string  `json:"period_label"`
	URL          *string `json:"pdf_url"`
}

// groupBySubject keeps the order in which subjects first appear in grades.
func groupBySubject(grades []grade.Grade) []SubjectGrades {
	groups := make([]SubjectGrades, 0)
	index := make(map[string]int)
	for _, g := range grades {
		i, ok := index[g.SubjectID]
		if !ok {
			i = len(groups)
			index[g.SubjectID] = i
			groups = append(groups, SubjectGrades{SubjectID: g.SubjectID, Subject: g.SubjectName})
		}
		groups[i].Grades = append(groups[i].Grades, g)
	}
	for i := range groups {
		groups[i].Average, _ = Average(grade.Values(groups[i].Grades))
	}
	return groups
}
