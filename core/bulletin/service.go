package bulletin

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/grade"
	"github.com/trezcool/masomo-bulletin/core/notification"
	"github.com/trezcool/masomo-bulletin/core/school"
	"github.com/trezcool/masomo-bulletin/core/user"
)

var (
	NowFunc = time.Now // mockable

	// OrderingFields are the fields report cards can be ordered by.
	OrderingFields = []string{"average", "rank", "period", "academic_year", "student_name", "created_at"}
)

type (
	Repository interface {
		// CreateReportCard fails with ErrDuplicateReportCard when the student already has a report card for the period.
		CreateReportCard(ctx context.Context, rc ReportCard, exec ...core.DBExecutor) (ReportCard, error)
		GetReportCard(ctx context.Context, id string, exec ...core.DBExecutor) (ReportCard, error)
		FindReportCard(ctx context.Context, studentID string, period school.Period, year string, exec ...core.DBExecutor) (ReportCard, error)
		// QueryReportCards applies AND operation on available QueryFilter fields.
		QueryReportCards(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]ReportCard, error)
		// ClassReportCards returns the report cards of a class for a period, oldest first.
		ClassReportCards(ctx context.Context, classID string, period school.Period, year string, exec ...core.DBExecutor) ([]ReportCard, error)
		// UpdateRanks writes every ranking at once: either all of them are saved or none is.
		UpdateRanks(ctx context.Context, rankings []Ranking, exec ...core.DBExecutor) error
		UpdateReportCard(ctx context.Context, rc ReportCard, exec ...core.DBExecutor) (ReportCard, error)
		DeleteReportCardsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error
		DeleteStudentReportCards(ctx context.Context, studentID string, exec ...core.DBExecutor) error
	}

	GradeStore interface {
		StudentGrades(ctx context.Context, studentID string, period school.Period) ([]grade.Grade, error)
	}

	RosterStore interface {
		GetStudent(ctx context.Context, id string) (school.Student, error)
		GetStudentByUserID(ctx context.Context, userID string) (school.Student, error)
		ClassStudents(ctx context.Context, classID string) ([]school.Student, error)
	}

	Notifier interface {
		Send(ctx context.Context, nn notification.NewNotification) (notification.Notification, error)
	}

	Deps struct {
		Repo     Repository
		Grades   GradeStore
		Roster   RosterStore
		Notifier Notifier
		Logger   core.Logger
		Validate *validator.Validate
		Config   core.BulletinConfig
	}

	Service struct {
		repo     Repository
		grades   GradeStore
		roster   RosterStore
		notifier Notifier
		logger   core.Logger
		validate *validator.Validate
		conf     core.BulletinConfig
		locks    *keyLock
	}
)

func NewService(deps Deps) *Service {
	conf := deps.Config
	if conf.RankScope != core.RankScopeClass {
		conf.RankScope = core.RankScopeBatch
	}
	if conf.ClassSize != core.ClassSizeRanked {
		conf.ClassSize = core.ClassSizeRoster
	}
	return &Service{
		repo:     deps.Repo,
		grades:   deps.Grades,
		roster:   deps.Roster,
		notifier: deps.Notifier,
		logger:   deps.Logger,
		validate: deps.Validate,
		conf:     conf,
		locks:    newKeyLock(),
	}
}

// Generate computes and stores the report card of a single student.
// The student is ranked among the students of their class having grades for the period.
func (svc *Service) Generate(ctx context.Context, actor user.User, nrc NewReportCard) (ReportCard, error) {
	if err := nrc.Validate(svc.validate); err != nil {
		return ReportCard{}, err
	}
	student, err := svc.roster.GetStudent(ctx, nrc.StudentID)
	if err != nil {
		return ReportCard{}, err
	}

	unlock := svc.locks.Lock(reportCardKey(student.ID, string(nrc.Period), nrc.AcademicYear))
	defer unlock()

	rc, err := svc.prepare(ctx, student, nrc.Period, nrc.AcademicYear)
	if err != nil {
		return ReportCard{}, err
	}
	rc.Comment = nrc.Comment

	ranking, err := svc.rankInClass(ctx, student, rc.Period, rc.Average)
	if err != nil {
		return ReportCard{}, errors.Wrap(err, "ranking student")
	}
	rc.Rank = ranking.Rank
	rc.ClassSize = ranking.ClassSize

	if rc, err = svc.repo.CreateReportCard(ctx, rc); err != nil {
		return ReportCard{}, errors.Wrap(err, "creating report card")
	}
	svc.logger.Debug("report card generated: "+rc.ID, actor)
	return rc, nil
}

// prepare computes an unsaved report card: ranked 1 of 1 until ranked for real.
func (svc *Service) prepare(ctx context.Context, student school.Student, period school.Period, year string) (ReportCard, error) {
	_, err := svc.repo.FindReportCard(ctx, student.ID, period, year)
	if err == nil {
		return ReportCard{}, ErrDuplicateReportCard
	}
	if errors.Cause(err) != ErrNotFound {
		return ReportCard{}, errors.Wrap(err, "finding report card")
	}

	grades, err := svc.grades.StudentGrades(ctx, student.ID, period)
	if err != nil {
		return ReportCard{}, errors.Wrap(err, "finding grades")
	}
	avg, err := Average(grade.Values(grades))
	if err != nil {
		return ReportCard{}, err
	}

	now := NowFunc().UTC()
	return ReportCard{
		StudentID:    student.ID,
		StudentName:  student.FullName,
		Matricule:    student.Matricule,
		ClassID:      student.ClassID,
		Period:       period,
		AcademicYear: year,
		Average:      avg,
		Mention:      MentionFor(avg),
		Rank:         1,
		ClassSize:    1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// rankInClass ranks student, whose average is avg, among the classmates having grades for period.
func (svc *Service) rankInClass(ctx context.Context, student school.Student, period school.Period, avg float64) (Ranking, error) {
	roster := []school.Student{student}
	if student.ClassID != "" {
		var err error
		if roster, err = svc.roster.ClassStudents(ctx, student.ClassID); err != nil {
			return Ranking{}, errors.Wrap(err, "finding class students")
		}
	}

	var found bool
	standings := make([]Standing, 0, len(roster))
	for _, s := range roster {
		if s.ID == student.ID {
			standings = append(standings, Standing{Key: s.ID, Average: avg})
			found = true
			continue
		}
		grades, err := svc.grades.StudentGrades(ctx, s.ID, period)
		if err != nil {
			return Ranking{}, errors.Wrap(err, "finding grades")
		}
		if len(grades) == 0 {
			continue
		}
		a, _ := Average(grade.Values(grades))
		standings = append(standings, Standing{Key: s.ID, Average: a})
	}
	if !found {
		standings = append(standings, Standing{Key: student.ID, Average: avg})
	}

	ranking, _ := findRanking(Rank(standings), student.ID)
	return ranking, nil
}

func (svc *Service) Get(ctx context.Context, id string) (ReportCard, error) {
	return svc.repo.GetReportCard(ctx, id)
}

// Detail returns a report card with its grades grouped by subject.
func (svc *Service) Detail(ctx context.Context, id string) (Detail, error) {
	rc, err := svc.repo.GetReportCard(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	return svc.detail(ctx, rc)
}

func (svc *Service) detail(ctx context.Context, rc ReportCard) (Detail, error) {
	grades, err := svc.grades.StudentGrades(ctx, rc.StudentID, rc.Period)
	if err != nil {
		return Detail{}, errors.Wrap(err, "finding grades")
	}
	return Detail{ReportCard: rc, Subjects: groupBySubject(grades)}, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]ReportCard, error) {
	filter.Clean()
	if err := checkOrdering(ordering); err != nil {
		return nil, err
	}
	return svc.repo.QueryReportCards(ctx, filter, ordering)
}

func checkOrdering(ordering []core.DBOrdering) error {
	for _, ord := range ordering {
		var ok bool
		for _, field := range OrderingFields {
			if ord.Field == field {
				ok = true
				break
			}
		}
		if !ok {
			return core.NewFieldError("ordering", "unknown field "+ord.Field)
		}
	}
	return nil
}

// StudentReportCards returns the published report cards of the student whose portal account is userID.
func (svc *Service) StudentReportCards(ctx context.Context, userID string) ([]ReportCard, error) {
	student, err := svc.roster.GetStudentByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	published := true
	return svc.repo.QueryReportCards(
		ctx,
		QueryFilter{StudentID: student.ID, Published: &published},
		[]core.DBOrdering{{Field: "academic_year", Ascending: true}, {Field: "period", Ascending: true}},
	)
}

// StudentDetail returns one of the published report cards of the student whose portal account is userID.
// Unpublished report cards are not found.
func (svc *Service) StudentDetail(ctx context.Context, userID, id string) (Detail, error) {
	student, err := svc.roster.GetStudentByUserID(ctx, userID)
	if err != nil {
		return Detail{}, err
	}
	rc, err := svc.repo.GetReportCard(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	if rc.StudentID != student.ID || !rc.Published {
		return Detail{}, ErrNotFound
	}
	return svc.detail(ctx, rc)
}

func (svc *Service) Update(ctx context.Context, id string, urc UpdateReportCard) (ReportCard, error) {
	if err := urc.Validate(svc.validate); err != nil {
		return ReportCard{}, err
	}
	rc, err := svc.repo.GetReportCard(ctx, id)
	if err != nil {
		return ReportCard{}, err
	}
	rc.Comment = urc.Comment
	rc.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateReportCard(ctx, rc)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return svc.repo.DeleteReportCardsByID(ctx, ids)
}

// DeleteForStudent removes every report card of a student.
func (svc *Service) DeleteForStudent(ctx context.Context, studentID string) error {
	return svc.repo.DeleteStudentReportCards(ctx, studentID)
}

// PDF describes the printable report card. Rendering is not available yet: the URL is always nil.
func (svc *Service) PDF(ctx context.Context, id string) (PDFDocument, error) {
	d, err := svc.Detail(ctx, id)
	if err != nil {
		return PDFDocument{}, err
	}
	return PDFDocument{
		Detail:       d,
		AverageLabel: d.AverageLabel(),
		RankLabel:    d.RankLabel(),
		PeriodLabel:  d.Period.Label(),
	}, nil
}
