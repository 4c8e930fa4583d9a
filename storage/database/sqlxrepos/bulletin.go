package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/bulletin"
	"github.com/trezcool/masomo-bulletin/core/school"
	"github.com/trezcool/masomo-bulletin/storage/database"
)

const reportCardSelect = `SELECT rc.id, rc.student_id, s.full_name AS student_name, s.matricule, s.class_id,
	rc.period, rc.academic_year, rc.average, rc.mention, rc.rank, rc.class_size, rc.published, rc.comment,
	rc.created_at, rc.updated_at
	FROM report_cards rc
	JOIN students s ON s.id = rc.student_id`

var reportCardOrderingColumns = map[string]string{
	"average":       "rc.average",
	"rank":          "rc.rank",
	"period":        "rc.period",
	"academic_year": "rc.academic_year",
	"student_name":  "s.full_name",
	"created_at":    "rc.created_at",
}

type reportCardRow struct {
	ID           string      `db:"id"`
	StudentID    string      `db:"student_id"`
	StudentName  string      `db:"student_name"`
	Matricule    string      `db:"matricule"`
	ClassID      null.String `db:"class_id"`
	Period       string      `db:"period"`
	AcademicYear string      `db:"academic_year"`
	Average      float64     `db:"average"`
	Mention      string      `db:"mention"`
	Rank         int         `db:"rank"`
	ClassSize    int         `db:"class_size"`
	Published    bool        `db:"published"`
	Comment      null.String `db:"comment"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func (row reportCardRow) reportCard() bulletin.ReportCard {
	return bulletin.ReportCard{
		ID:           row.ID,
		StudentID:    row.StudentID,
		StudentName:  row.StudentName,
		Matricule:    row.Matricule,
		ClassID:      row.ClassID.String,
		Period:       school.Period(row.Period),
		AcademicYear: row.AcademicYear,
		Average:      row.Average,
		Mention:      bulletin.Mention(row.Mention),
		Rank:         row.Rank,
		ClassSize:    row.ClassSize,
		Published:    row.Published,
		Comment:      row.Comment.Ptr(),
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}

func reportCardSlice(rows []reportCardRow) []bulletin.ReportCard {
	rcs := make([]bulletin.ReportCard, 0, len(rows))
	for _, row := range rows {
		rcs = append(rcs, row.reportCard())
	}
	return rcs
}

type reportCardRepository struct {
	repository
}

var _ bulletin.Repository = (*reportCardRepository)(nil) // interface compliance check

func NewReportCardRepository(exec core.DBExecutor) *reportCardRepository {
	return &reportCardRepository{repository{exec: exec}}
}

func (repo reportCardRepository) CreateReportCard(ctx context.Context, rc bulletin.ReportCard, exec ...core.DBExecutor) (bulletin.ReportCard, error) {
	rc.ID = uuid.New().String()
	_, err := repo.execute(
		ctx, exec,
		`INSERT INTO report_cards (id, student_id, period, academic_year, average, mention, rank, class_size, published, comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rc.ID, rc.StudentID, string(rc.Period), rc.AcademicYear, rc.Average, string(rc.Mention), rc.Rank, rc.ClassSize,
		rc.Published, null.StringFromPtr(rc.Comment), rc.CreatedAt.UTC(), rc.UpdatedAt.UTC(),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return bulletin.ReportCard{}, bulletin.ErrDuplicateReportCard
		}
		return bulletin.ReportCard{}, errors.Wrap(err, "inserting report card")
	}
	return repo.GetReportCard(ctx, rc.ID, exec...)
}

func (repo reportCardRepository) GetReportCard(ctx context.Context, id string, exec ...core.DBExecutor) (bulletin.ReportCard, error) {
	var row reportCardRow
	if err := repo.get(ctx, exec, &row, reportCardSelect+" WHERE rc.id = ?", id); err != nil {
		return bulletin.ReportCard{}, trapNoRowsErr(err, bulletin.ErrNotFound, "finding report card")
	}
	return row.reportCard(), nil
}

func (repo reportCardRepository) FindReportCard(ctx context.Context, studentID string, period school.Period, year string, exec ...core.DBExecutor) (bulletin.ReportCard, error) {
	var row reportCardRow
	err := repo.get(
		ctx, exec, &row,
		reportCardSelect+" WHERE rc.student_id = ? AND rc.period = ? AND rc.academic_year = ?",
		studentID, string(period), year,
	)
	if err != nil {
		return bulletin.ReportCard{}, trapNoRowsErr(err, bulletin.ErrNotFound, "finding report card")
	}
	return row.reportCard(), nil
}

func (repo reportCardRepository) QueryReportCards(ctx context.Context, filter bulletin.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]bulletin.ReportCard, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.StudentID != "" {
		where = append(where, "rc.student_id = ?")
		args = append(args, filter.StudentID)
	}
	if filter.ClassID != "" {
		where = append(where, "s.class_id = ?")
		args = append(args, filter.ClassID)
	}
	if filter.Period != "" {
		where = append(where, "rc.period = ?")
		args = append(args, string(filter.Period))
	}
	if filter.AcademicYear != "" {
		where = append(where, "rc.academic_year = ?")
		args = append(args, filter.AcademicYear)
	}
	if filter.Published != nil {
		where = append(where, "rc.published = ?")
		args = append(args, *filter.Published)
	}
	// report cards of students with full name or matricule matching the search keyword
	if filter.Search != "" {
		val := "%" + strings.ToLower(filter.Search) + "%"
		where = append(where, "(LOWER(s.full_name) LIKE ? OR LOWER(s.matricule) LIKE ?)")
		args = append(args, val, val)
	}

	query := reportCardSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += orderBy(ordering, reportCardOrderingColumns, "rc.created_at, rc.id")

	var rows []reportCardRow
	if err := repo.selekt(ctx, exec, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying report cards")
	}
	return reportCardSlice(rows), nil
}

func (repo reportCardRepository) ClassReportCards(ctx context.Context, classID string, period school.Period, year string, exec ...core.DBExecutor) ([]bulletin.ReportCard, error) {
	var rows []reportCardRow
	err := repo.selekt(
		ctx, exec, &rows,
		reportCardSelect+" WHERE s.class_id = ? AND rc.period = ? AND rc.academic_year = ? ORDER BY rc.created_at, rc.id",
		classID, string(period), year,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying class report cards")
	}
	return reportCardSlice(rows), nil
}

func (repo reportCardRepository) UpdateRanks(ctx context.Context, rankings []bulletin.Ranking, exec ...core.DBExecutor) error {
	return core.WithTx(ctx, repo.getExec(exec), func(tx core.DBExecutor) error {
		query := tx.Rebind("UPDATE report_cards SET rank = ?, class_size = ? WHERE id = ?")
		for _, r := range rankings {
			res, err := tx.ExecContext(ctx, query, r.Rank, r.ClassSize, r.Key)
			if err != nil {
				return errors.Wrap(err, "updating rank")
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return bulletin.ErrNotFound
			}
		}
		return nil
	})
}

func (repo reportCardRepository) UpdateReportCard(ctx context.Context, rc bulletin.ReportCard, exec ...core.DBExecutor) (bulletin.ReportCard, error) {
	res, err := repo.execute(
		ctx, exec,
		`UPDATE report_cards SET average = ?, mention = ?, rank = ?, class_size = ?, published = ?, comment = ?, updated_at = ?
		WHERE id = ?`,
		rc.Average, string(rc.Mention), rc.Rank, rc.ClassSize, rc.Published, null.StringFromPtr(rc.Comment), rc.UpdatedAt.UTC(), rc.ID,
	)
	if err != nil {
		return bulletin.ReportCard{}, errors.Wrap(err, "updating report card")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return bulletin.ReportCard{}, bulletin.ErrNotFound
	}
	return repo.GetReportCard(ctx, rc.ID, exec...)
}

func (repo reportCardRepository) DeleteReportCardsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	if _, err := repo.execute(ctx, exec, "DELETE FROM report_cards WHERE id IN "+inClause(len(ids)), args...); err != nil {
		return errors.Wrap(err, "deleting report cards")
	}
	return nil
}

func (repo reportCardRepository) DeleteStudentReportCards(ctx context.Context, studentID string, exec ...core.DBExecutor) error {
	if _, err := repo.execute(ctx, exec, "DELETE FROM report_cards WHERE student_id = ?", studentID); err != nil {
		return errors.Wrap(err, "deleting student report cards")
	}
	return nil
}
