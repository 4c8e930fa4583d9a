package bulletin

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/school"
	"github.com/trezcool/masomo-bulletin/core/user"
)

// BatchResult is the outcome of GenerateForClass. A student either got a report card or an ItemError.
type BatchResult struct {
	CreatedCount int          `json:"created_count"`
	Errors       []string     `json:"errors"`
	ReportCards  []ReportCard `json:"report_cards"`
	Items        []ItemError  `json:"items"`
}

func (br *BatchResult) addError(ie ItemError) {
	br.Items = append(br.Items, ie)
	br.Errors = append(br.Errors, ie.Error())
}

// GenerateForClass generates the report cards of every student of a class.
// Students failing (existing report card, no grades, ...) are reported in the result and skipped.
// The created report cards are then ranked in a single pass, according to the configured rank scope.
// If ranking fails, the result is returned along with the error: the created report cards stay stored
// with their provisional rank (1) and class size (roster size).
func (svc *Service) GenerateForClass(ctx context.Context, actor user.User, cb ClassBatch) (BatchResult, error) {
	if err := cb.Validate(svc.validate); err != nil {
		return BatchResult{}, err
	}
	roster, err := svc.roster.ClassStudents(ctx, cb.ClassID)
	if err != nil {
		return BatchResult{}, err
	}

	unlockClass := svc.locks.Lock(classKey(cb.ClassID, string(cb.Period), cb.AcademicYear))
	defer unlockClass()

	result := BatchResult{
		Errors:      make([]string, 0),
		ReportCards: make([]ReportCard, 0, len(roster)),
		Items:       make([]ItemError, 0),
	}
	for _, student := range roster {
		rc, err := svc.generateForStudent(ctx, student, cb, len(roster))
		if err != nil {
			result.addError(newItemError(student.ID, student.FullName, err))
			continue
		}
		result.ReportCards = append(result.ReportCards, rc)
	}
	result.CreatedCount = len(result.ReportCards)

	if result.CreatedCount > 0 {
		if err = svc.rankBatch(ctx, cb, len(roster), result.ReportCards); err != nil {
			return result, errors.Wrap(err, "ranking report cards")
		}
	}

	svc.logger.Info(
		fmt.Sprintf(
			"report cards generated for class %s (%s %s): %d created, %d skipped",
			cb.ClassID, cb.Period, cb.AcademicYear, result.CreatedCount, len(result.Items),
		),
		actor,
	)
	return result, nil
}

func (svc *Service) generateForStudent(ctx context.Context, student school.Student, cb ClassBatch, rosterSize int) (ReportCard, error) {
	unlock := svc.locks.Lock(reportCardKey(student.ID, string(cb.Period), cb.AcademicYear))
	defer unlock()

	rc, err := svc.prepare(ctx, student, cb.Period, cb.AcademicYear)
	if err != nil {
		return ReportCard{}, err
	}
	rc.ClassSize = rosterSize // provisional, until ranked
	return svc.repo.CreateReportCard(ctx, rc)
}

// rankBatch ranks created (in roster order) and saves the ranks.
// With the class rank scope, the report cards that existed before the batch are ranked along, before created.
func (svc *Service) rankBatch(ctx context.Context, cb ClassBatch, rosterSize int, created []ReportCard) error {
	standings := make([]Standing, 0, len(created))

	if svc.conf.RankScope == core.RankScopeClass {
		existing, err := svc.repo.ClassReportCards(ctx, cb.ClassID, cb.Period, cb.AcademicYear)
		if err != nil {
			return errors.Wrap(err, "finding class report cards")
		}
		isNew := make(map[string]bool, len(created))
		for _, rc := range created {
			isNew[rc.ID] = true
		}
		for _, rc := range existing {
			if !isNew[rc.ID] {
				standings = append(standings, Standing{Key: rc.ID, Average: rc.Average})
			}
		}
	}
	for _, rc := range created {
		standings = append(standings, Standing{Key: rc.ID, Average: rc.Average})
	}

	rankings := Rank(standings)
	if svc.conf.ClassSize == core.ClassSizeRoster {
		for i := range rankings {
			rankings[i].ClassSize = rosterSize
		}
	}

	if err := svc.repo.UpdateRanks(ctx, rankings); err != nil {
		return err
	}

	for i := range created {
		if r, ok := findRanking(rankings, created[i].ID); ok {
			created[i].Rank = r.Rank
			created[i].ClassSize = r.ClassSize
		}
	}
	return nil
}
