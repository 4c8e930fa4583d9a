package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/grade"
	"github.com/trezcool/masomo-bulletin/core/school"
)

type gradeRow struct {
	ID          string      `db:"id"`
	StudentID   string      `db:"student_id"`
	SubjectID   string      `db:"subject_id"`
	SubjectName null.String `db:"subject_name"`
	Period      string      `db:"period"`
	Value       float64     `db:"value"`
	Kind        string      `db:"kind"`
	Comment     null.String `db:"comment"`
	RecordedBy  null.String `db:"recorded_by"`
	RecordedAt  time.Time   `db:"recorded_at"`
}

func (row gradeRow) grade() grade.Grade {
	return grade.Grade{
		ID:          row.ID,
		StudentID:   row.StudentID,
		SubjectID:   row.SubjectID,
		SubjectName: row.SubjectName.String,
		Period:      school.Period(row.Period),
		Value:       row.Value,
		Kind:        row.Kind,
		Comment:     row.Comment.String,
		RecordedBy:  row.RecordedBy.String,
		RecordedAt:  row.RecordedAt.UTC(),
	}
}

type gradeRepository struct {
	repository
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(exec core.DBExecutor) *gradeRepository {
	return &gradeRepository{repository{exec: exec}}
}

func (repo gradeRepository) CreateGrade(ctx context.Context, g grade.Grade, exec ...core.DBExecutor) (grade.Grade, error) {
	g.ID = uuid.New().String()
	g.RecordedAt = g.RecordedAt.UTC()
	_, err := repo.execute(
		ctx, exec,
		`INSERT INTO grades (id, student_id, subject_id, period, value, kind, comment, recorded_by, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.StudentID, g.SubjectID, string(g.Period), g.Value, g.Kind,
		null.NewString(g.Comment, g.Comment != ""), nullID(g.RecordedBy), g.RecordedAt,
	)
	if err != nil {
		return grade.Grade{}, errors.Wrap(err, "inserting grade")
	}
	return g, nil
}

func (repo gradeRepository) StudentGrades(ctx context.Context, studentID string, period school.Period, exec ...core.DBExecutor) ([]grade.Grade, error) {
	var rows []gradeRow
	err := repo.selekt(
		ctx, exec, &rows,
		`SELECT g.id, g.student_id, g.subject_id, s.name AS subject_name, g.period, g.value, g.kind, g.comment, g.recorded_by, g.recorded_at
		FROM grades g
		LEFT JOIN subjects s ON s.id = g.subject_id
		WHERE g.student_id = ? AND g.period = ?
		ORDER BY g.recorded_at, g.id`,
		studentID, string(period),
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying student grades")
	}
	grades := make([]grade.Grade, 0, len(rows))
	for _, row := range rows {
		grades = append(grades, row.grade())
	}
	return grades, nil
}

func (repo gradeRepository) DeleteStudentGrades(ctx context.Context, studentID string, exec ...core.DBExecutor) error {
	if _, err := repo.execute(ctx, exec, "DELETE FROM grades WHERE student_id = ?", studentID); err != nil {
		return errors.Wrap(err, "deleting student grades")
	}
	return nil
}
