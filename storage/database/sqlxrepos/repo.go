package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-bulletin/core"
)

// repository holds what every sqlx repository needs. Queries are written with "?" bind vars and rebound per driver.
type repository struct {
	exec core.DBExecutor
}

func (repo repository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

func (repo repository) get(ctx context.Context, exec []core.DBExecutor, dest interface{}, query string, args ...interface{}) error {
	exe := repo.getExec(exec)
	return exe.GetContext(ctx, dest, exe.Rebind(query), args...)
}

func (repo repository) selekt(ctx context.Context, exec []core.DBExecutor, dest interface{}, query string, args ...interface{}) error {
	exe := repo.getExec(exec)
	return exe.SelectContext(ctx, dest, exe.Rebind(query), args...)
}

func (repo repository) execute(ctx context.Context, exec []core.DBExecutor, query string, args ...interface{}) (sql.Result, error) {
	exe := repo.getExec(exec)
	return exe.ExecContext(ctx, exe.Rebind(query), args...)
}

// trapNoRowsErr maps the "no rows" err to notFound
func trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// inClause returns "(?, ?, ...)" for n bind vars.
func inClause(n int) string {
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", n), ", ") + ")"
}

func orderBy(ordering []core.DBOrdering, columns map[string]string, fallback string) string {
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		col, ok := columns[ord.Field]
		if !ok {
			continue
		}
		orderList = append(orderList, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
	}
	if len(orderList) == 0 {
		return " ORDER BY " + fallback
	}
	return " ORDER BY " + strings.Join(orderList, ", ")
}
