package bulletin

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound            = errors.New("report card not found")
	ErrDuplicateReportCard = errors.New("a report card already exists for this student, period and academic year")
	ErrNoGrades            = errors.New("no grades for this period")
)

// ItemErrorKind classifies why a student was skipped by a batch.
type ItemErrorKind string

const (
	KindDuplicate ItemErrorKind = "duplicate"
	KindNoGrades  ItemErrorKind = "no_grades"
	KindInternal  ItemErrorKind = "internal"
)

// ItemError is the failure of a single student within a batch. It never aborts the batch.
type ItemError struct {
	StudentID   string        `json:"student_id"`
	StudentName string        `json:"student_name"`
	Kind        ItemErrorKind `json:"kind"`
	Err         error         `json:"-"`
}

func newItemError(studentID, studentName string, err error) ItemError {
	kind := KindInternal
	switch errors.Cause(err) {
	case ErrDuplicateReportCard:
		kind = KindDuplicate
	case ErrNoGrades:
		kind = KindNoGrades
	}
	return ItemError{StudentID: studentID, StudentName: studentName, Kind: kind, Err: err}
}

func (e ItemError) Error() string {
	switch e.Kind {
	case KindDuplicate:
		return fmt.Sprintf("report card already exists for %s", e.StudentName)
	case KindNoGrades:
		return fmt.Sprintf("no grades for %s", e.StudentName)
	default:
		return fmt.Sprintf("error for %s: %v", e.StudentName, e.Err)
	}
}

func (e ItemError) Cause() error { return e.Err }
