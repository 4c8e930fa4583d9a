package inmemdb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/masomo-bulletin/core/bulletin"
	"github.com/trezcool/masomo-bulletin/core/grade"
	"github.com/trezcool/masomo-bulletin/core/notification"
	"github.com/trezcool/masomo-bulletin/core/school"
	"github.com/trezcool/masomo-bulletin/core/user"
)

// DB is an in-memory store for tests and demos. Tables keep their insertion order.
type DB struct {
	mu sync.RWMutex

	users         *table[user.User]
	classes       *table[school.Class]
	students      *table[school.Student]
	subjects      *table[school.Subject]
	grades        *table[grade.Grade]
	reportCards   *table[bulletin.ReportCard]
	notifications *table[notification.Notification]
}

func Open() *DB {
	return &DB{
		users:         newTable[user.User](),
		classes:       newTable[school.Class](),
		students:      newTable[school.Student](),
		subjects:      newTable[school.Subject](),
		grades:        newTable[grade.Grade](),
		reportCards:   newTable[bulletin.ReportCard](),
		notifications: newTable[notification.Notification](),
	}
}

// table is an insertion ordered map of rows. Callers hold DB.mu.
type table[T any] struct {
	ids  []string
	rows map[string]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func newID() string { return uuid.New().String() }

func (t *table[T]) insert(id string, row T) {
	if _, ok := t.rows[id]; !ok {
		t.ids = append(t.ids, id)
	}
	t.rows[id] = row
}

func (t *table[T]) get(id string) (T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

// all returns the rows in insertion order.
func (t *table[T]) all() []T {
	rows := make([]T, 0, len(t.ids))
	for _, id := range t.ids {
		rows = append(rows, t.rows[id])
	}
	return rows
}

func (t *table[T]) delete(ids ...string) {
	for _, id := range ids {
		delete(t.rows, id)
	}
	kept := t.ids[:0]
	for _, id := range t.ids {
		if _, ok := t.rows[id]; ok {
			kept = append(kept, id)
		}
	}
	t.ids = kept
}

// deleteWhere deletes the rows matching fn.
func (t *table[T]) deleteWhere(fn func(T) bool) {
	var ids []string
	for _, id := range t.ids {
		if fn(t.rows[id]) {
			ids = append(ids, id)
		}
	}
	t.delete(ids...)
}
