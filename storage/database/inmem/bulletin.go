package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/bulletin"
	"github.com/trezcool/masomo-bulletin/core/school"
)

type reportCardRepository struct {
	db *DB
}

var _ bulletin.Repository = (*reportCardRepository)(nil) // interface compliance check

func NewReportCardRepository(db *DB) *reportCardRepository {
	return &reportCardRepository{db: db}
}

// withStudent fills the student columns the way the SQL join does. Callers hold db.mu.
func (repo *reportCardRepository) withStudent(rc bulletin.ReportCard) bulletin.ReportCard {
	if s, ok := repo.db.students.get(rc.StudentID); ok {
		rc.StudentName = s.FullName
		rc.Matricule = s.Matricule
		rc.ClassID = s.ClassID
	}
	return rc
}

func (repo *reportCardRepository) CreateReportCard(_ context.Context, rc bulletin.ReportCard, _ ...core.DBExecutor) (bulletin.ReportCard, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.reportCards.all() {
		if existing.StudentID == rc.StudentID && existing.Period == rc.Period && existing.AcademicYear == rc.AcademicYear {
			return bulletin.ReportCard{}, bulletin.ErrDuplicateReportCard
		}
	}
	rc.ID = newID()
	repo.db.reportCards.insert(rc.ID, rc)
	return repo.withStudent(rc), nil
}

func (repo *reportCardRepository) GetReportCard(_ context.Context, id string, _ ...core.DBExecutor) (bulletin.ReportCard, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if rc, ok := repo.db.reportCards.get(id); ok {
		return repo.withStudent(rc), nil
	}
	return bulletin.ReportCard{}, bulletin.ErrNotFound
}

func (repo *reportCardRepository) FindReportCard(_ context.Context, studentID string, period school.Period, year string, _ ...core.DBExecutor) (bulletin.ReportCard, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, rc := range repo.db.reportCards.all() {
		if rc.StudentID == studentID && rc.Period == period && rc.AcademicYear == year {
			return repo.withStudent(rc), nil
		}
	}
	return bulletin.ReportCard{}, bulletin.ErrNotFound
}

func (repo *reportCardRepository) QueryReportCards(_ context.Context, filter bulletin.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]bulletin.ReportCard, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	rcs := make([]bulletin.ReportCard, 0)
	for _, rc := range repo.db.reportCards.all() {
		rc = repo.withStudent(rc)
		switch {
		case filter.StudentID != "" && rc.StudentID != filter.StudentID,
			filter.ClassID != "" && rc.ClassID != filter.ClassID,
			filter.Period != "" && rc.Period != filter.Period,
			filter.AcademicYear != "" && rc.AcademicYear != filter.AcademicYear,
			filter.Published != nil && rc.Published != *filter.Published:
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(rc.StudentName), search) &&
			!strings.Contains(strings.ToLower(rc.Matricule), search) {
			continue
		}
		rcs = append(rcs, rc)
	}

	sort.SliceStable(rcs, func(i, j int) bool {
		for _, ord := range ordering {
			c := compareReportCards(rcs[i], rcs[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
	return rcs, nil
}

func compareReportCards(a, b bulletin.ReportCard, field string) int {
	switch field {
	case "average":
		return compareFloats(a.Average, b.Average)
	case "rank":
		return a.Rank - b.Rank
	case "period":
		return strings.Compare(string(a.Period), string(b.Period))
	case "academic_year":
		return strings.Compare(a.AcademicYear, b.AcademicYear)
	case "student_name":
		return strings.Compare(a.StudentName, b.StudentName)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (repo *reportCardRepository) ClassReportCards(_ context.Context, classID string, period school.Period, year string, _ ...core.DBExecutor) ([]bulletin.ReportCard, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	rcs := make([]bulletin.ReportCard, 0)
	for _, rc := range repo.db.reportCards.all() {
		rc = repo.withStudent(rc)
		if rc.ClassID == classID && rc.Period == period && rc.AcademicYear == year {
			rcs = append(rcs, rc)
		}
	}
	return rcs, nil
}

func (repo *reportCardRepository) UpdateRanks(_ context.Context, rankings []bulletin.Ranking, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, r := range rankings {
		if _, ok := repo.db.reportCards.get(r.Key); !ok {
			return bulletin.ErrNotFound
		}
	}
	for _, r := range rankings {
		rc, _ := repo.db.reportCards.get(r.Key)
		rc.Rank = r.Rank
		rc.ClassSize = r.ClassSize
		repo.db.reportCards.insert(rc.ID, rc)
	}
	return nil
}

func (repo *reportCardRepository) UpdateReportCard(_ context.Context, rc bulletin.ReportCard, _ ...core.DBExecutor) (bulletin.ReportCard, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.reportCards.get(rc.ID); !ok {
		return bulletin.ReportCard{}, bulletin.ErrNotFound
	}
	repo.db.reportCards.insert(rc.ID, rc)
	return repo.withStudent(rc), nil
}

func (repo *reportCardRepository) DeleteReportCardsByID(_ context.Context, ids []string, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.reportCards.delete(ids...)
	return nil
}

func (repo *reportCardRepository) DeleteStudentReportCards(_ context.Context, studentID string, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.reportCards.deleteWhere(func(rc bulletin.ReportCard) bool { return rc.StudentID == studentID })
	return nil
}
