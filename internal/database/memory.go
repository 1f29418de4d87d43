package database

import (
	"context"
	"sort"
	"sync"
)

// Table is anything the memory engine can snapshot and roll back.
type Table interface {
	Snapshot() (restore func())
}

// MemoryDB is a single-lock in-process store. A transaction holds the lock
// for its whole duration and restores every registered table if fn fails.
type MemoryDB struct {
	mu     sync.Mutex
	tables []Table
}

type memTxKey struct{}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{}
}

func (m *MemoryDB) Register(t Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables = append(m.tables, t)
}

func (m *MemoryDB) inTx(ctx context.Context) bool {
	db, ok := ctx.Value(memTxKey{}).(*MemoryDB)
	return ok && db == m
}

func (m *MemoryDB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if m.inTx(ctx) {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	restores := make([]func(), 0, len(m.tables))
	for _, t := range m.tables {
		restores = append(restores, t.Snapshot())
	}
	defer func() {
		if r := recover(); r != nil {
			rollback(restores)
			panic(r)
		}
	}()

	if err = fn(context.WithValue(ctx, memTxKey{}, m)); err != nil {
		rollback(restores)
	}
	return err
}

func rollback(restores []func()) {
	for _, restore := range restores {
		restore()
	}
}

// Guard serializes a single statement. Inside a transaction the lock is
// already held and Guard is a no-op.
func (m *MemoryDB) Guard(ctx context.Context) (release func()) {
	if m.inTx(ctx) {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

// MemTable is a keyed collection of cloneable rows.
type MemTable[T any] struct {
	rows  map[string]T
	clone func(T) T
}

func NewMemTable[T any](db *MemoryDB, clone func(T) T) *MemTable[T] {
	t := &MemTable[T]{rows: make(map[string]T), clone: clone}
	db.Register(t)
	return t
}

func (t *MemTable[T]) Get(key string) (T, bool) {
	row, ok := t.rows[key]
	if !ok {
		var zero T
		return zero, false
	}
	return t.clone(row), true
}

func (t *MemTable[T]) Put(key string, row T) {
	t.rows[key] = t.clone(row)
}

func (t *MemTable[T]) Delete(key string) bool {
	if _, ok := t.rows[key]; !ok {
		return false
	}
	delete(t.rows, key)
	return true
}

// All returns every row ordered by key.
func (t *MemTable[T]) All() []T {
	keys := make([]string, 0, len(t.rows))
	for k := range t.rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, t.clone(t.rows[k]))
	}
	return out
}

func (t *MemTable[T]) Len() int {
	return len(t.rows)
}

func (t *MemTable[T]) Snapshot() func() {
	saved := make(map[string]T, len(t.rows))
	for k, v := range t.rows {
		saved[k] = t.clone(v)
	}
	return func() { t.rows = saved }
}

// Paginate slices rows the way LIMIT/OFFSET would. pageSize <= 0 returns everything.
func Paginate[T any](rows []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return rows
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return []T{}
	}
	end := min(start+pageSize, len(rows))
	return rows[start:end]
}
