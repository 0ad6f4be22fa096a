package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"notes-api/internal/model"
	"notes-api/internal/query"
	"notes-api/internal/repository"
)

// testCounter дает уникальные имена in-memory базам
var testCounter atomic.Int64

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()

	dsn := fmt.Sprintf("file:notes_test_%d?mode=memory&cache=shared", testCounter.Add(1))
	store, err := New(context.Background(), Config{Driver: string(SQLite), DSN: dsn}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	return store
}

func insert(t *testing.T, store *SQLStore, title, content string) model.Note {
	t.Helper()

	note, err := store.Insert(context.Background(), model.Note{Title: title, Content: content})
	require.NoError(t, err)
	return note
}

func noteIDs(notes []model.Note) []int64 {
	out := make([]int64, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(context.Background(), Config{Driver: "mysql", DSN: "x"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestRebind(t *testing.T) {
	sqlite := &SQLStore{dbType: SQLite}
	pg := &SQLStore{dbType: PGX}

	q := "SELECT * FROM notes WHERE id = ? AND title = ?"
	assert.Equal(t, q, sqlite.rebind(q))
	assert.Equal(t, "SELECT * FROM notes WHERE id = $1 AND title = $2", pg.rebind(q))
}

func TestWhereAndOrderClause(t *testing.T) {
	where, args := whereClause([]query.Filter{
		{Column: query.ColumnTitle, Value: "50%_off"},
		{Column: query.ColumnContent, Value: "x"},
	})

	assert.Equal(t, ` WHERE LOWER(title) LIKE LOWER(?) ESCAPE '\' AND LOWER(content) LIKE LOWER(?) ESCAPE '\'`, where)
	assert.Equal(t, []any{`%50\%\_off%`, "%x%"}, args)

	where, args = whereClause(nil)
	assert.Empty(t, where)
	assert.Nil(t, args)

	assert.Equal(t, " ORDER BY title DESC, id ASC", orderClause([]query.Order{
		{Column: query.ColumnTitle, Direction: query.Desc},
		{Column: query.ColumnID, Direction: query.Asc},
	}))
	assert.Equal(t, " ORDER BY id ASC", orderClause(nil))
}

func TestSQLStore_InsertAndFindByID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created := insert(t, store, "A", "B")
	assert.NotZero(t, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	found, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", found.Title)
	assert.Equal(t, "B", found.Content)
	assert.True(t, created.CreatedAt.Equal(found.CreatedAt), "Expected %v, got %v", created.CreatedAt, found.CreatedAt)
	assert.True(t, found.CreatedAt.Equal(found.UpdatedAt))

	_, err = store.FindByID(ctx, created.ID+100)
	assert.True(t, errors.Is(err, repository.ErrNoteNotFound))
}

func TestSQLStore_FindAndCount(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	insert(t, store, "Go tips", "channels")
	insert(t, store, "groceries", "milk")
	insert(t, store, "GO modules", "100% replace")
	insert(t, store, "go", "channels and select")

	filters := []query.Filter{{Column: query.ColumnTitle, Value: "go"}}
	notes, err := store.Find(ctx, query.Plan{
		Filters: filters,
		Order:   []query.Order{{Column: query.ColumnCreatedAt, Direction: query.Desc}},
		Limit:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 3}, noteIDs(notes))

	notes, err = store.Find(ctx, query.Plan{
		Filters: filters,
		Order:   []query.Order{{Column: query.ColumnCreatedAt, Direction: query.Desc}},
		Offset:  2,
		Limit:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, noteIDs(notes))

	total, err := store.Count(ctx, filters)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)

	// '%' ищется буквально
	notes, err = store.Find(ctx, query.Plan{
		Filters: []query.Filter{{Column: query.ColumnContent, Value: "100%"}},
		Order:   query.DefaultOrder,
		Limit:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, noteIDs(notes))

	total, err = store.Count(ctx, []query.Filter{{Column: query.ColumnTitle, Value: "zzz-no-match"}})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSQLStore_InTx(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	created := insert(t, store, "old", "body")

	boom := errors.New("boom")
	err := store.InTx(ctx, func(tx repository.Tx) error {
		note, err := tx.FindByID(ctx, created.ID)
		if err != nil {
			return err
		}
		note.Title = "discarded"
		if _, err := tx.Save(ctx, note); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	found, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "old", found.Title)

	var saved model.Note
	err = store.InTx(ctx, func(tx repository.Tx) error {
		note, err := tx.FindByID(ctx, created.ID)
		if err != nil {
			return err
		}
		note.Content = "new body"
		note.UpdatedAt = note.UpdatedAt.Add(time.Minute)
		saved, err = tx.Save(ctx, note)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "new body", saved.Content)
	assert.True(t, saved.UpdatedAt.After(created.UpdatedAt))
	assert.True(t, saved.CreatedAt.Equal(created.CreatedAt))

	err = store.InTx(ctx, func(tx repository.Tx) error {
		_, err := tx.FindByID(ctx, 9999)
		return err
	})
	assert.True(t, errors.Is(err, repository.ErrNoteNotFound))
}

func TestSQLStore_DeleteByID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	created := insert(t, store, "t", "c")

	affected, err := store.DeleteByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), affected)

	affected, err = store.DeleteByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)

	require.NoError(t, store.Ping(ctx))
}

func TestSQLStore_FindHugeOffset(t *testing.T) {
	store := newTestStore(t)
	insert(t, store, "a", "1")
	insert(t, store, "b", "2")

	notes, err := store.Find(context.Background(), query.Build(query.Search{Page: 4611686018427387905, Size: 4}))
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestBigint(t *testing.T) {
	assert.Equal(t, int64(42), bigint(42))
	assert.Equal(t, int64(math.MaxInt64), bigint(math.MaxUint64))
	assert.Equal(t, int64(math.MaxInt64), bigint(1<<63))
}

func TestSQLStore_FindPagesThroughTiedKeys(t *testing.T) {
	store := newTestStore(t)
	for range 25 {
		insert(t, store, "same", "body")
	}

	seen := make([]int64, 0, 25)
	for page := uint64(1); page <= 3; page++ {
		notes, err := store.Find(context.Background(), query.Build(query.Search{
			Page: page,
			Size: 10,
			Sort: []model.SortField{{Name: model.SortByTitle, Direction: model.Ascending}},
		}))
		require.NoError(t, err)
		seen = append(seen, noteIDs(notes)...)
	}

	require.Len(t, seen, 25)
	for i, id := range seen {
		assert.Equal(t, int64(i+1), id)
	}
}
