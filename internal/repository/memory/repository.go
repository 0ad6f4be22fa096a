package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"notes-api/internal/model"
	"notes-api/internal/query"
	"notes-api/internal/repository"
)

var _ repository.NoteStore = (*repo)(nil)

type repo struct {
	mu     sync.RWMutex
	notes  map[int64]model.Note
	nextID int64
	now    func() time.Time
}

// Option настройка in-memory хранилища
type Option func(*repo)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(r *repo) {
		r.now = now
	}
}

// NewRepository создает новый экземпляр in-memory хранилища на основе map
func NewRepository(opts ...Option) repository.NoteStore {
	r := &repo{
		notes: make(map[int64]model.Note),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Insert сохраняет заметку и назначает ей следующий ID
func (r *repo) Insert(ctx context.Context, note model.Note) (model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	note.ID = r.nextID

	now := r.now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	r.notes[note.ID] = note

	return note, nil
}

// FindByID возвращает заметку по её ID
func (r *repo) FindByID(ctx context.Context, id int64) (model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, exists := r.notes[id]
	if !exists {
		return model.Note{}, repository.ErrNoteNotFound
	}

	return note, nil
}

// Find фильтрует, сортирует и нарезает заметки согласно плану
func (r *repo) Find(ctx context.Context, plan query.Plan) ([]model.Note, error) {
	r.mu.RLock()
	matched := r.match(plan.Filters)
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return less(matched[i], matched[j], plan.Order)
	})

	if plan.Offset >= uint64(len(matched)) {
		return []model.Note{}, nil
	}
	end := uint64(len(matched))
	if plan.Limit < end-plan.Offset {
		end = plan.Offset + plan.Limit
	}

	return matched[plan.Offset:end], nil
}

// Count возвращает количество заметок под фильтрами
func (r *repo) Count(ctx context.Context, filters []query.Filter) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return uint64(len(r.match(filters))), nil
}

// InTx держит эксклюзивную блокировку на время fn.
// Изменения применяются только если fn завершилась без ошибки.
func (r *repo) InTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := &tx{repo: r, pending: make(map[int64]model.Note)}
	if err := fn(t); err != nil {
		return err
	}

	for id, note := range t.pending {
		r.notes[id] = note
	}

	return nil
}

// DeleteByID удаляет заметку по ID
func (r *repo) DeleteByID(ctx context.Context, id int64) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.notes[id]; !exists {
		return 0, nil
	}

	delete(r.notes, id)

	return 1, nil
}

func (r *repo) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *repo) Close() error {
	return nil
}

// match вызывается под блокировкой
func (r *repo) match(filters []query.Filter) []model.Note {
	notes := make([]model.Note, 0, len(r.notes))
	for _, note := range r.notes {
		if matches(note, filters) {
			notes = append(notes, note)
		}
	}
	return notes
}

func matches(note model.Note, filters []query.Filter) bool {
	for _, f := range filters {
		var value string
		switch f.Column {
		case query.ColumnTitle:
			value = note.Title
		case query.ColumnContent:
			value = note.Content
		default:
			return false
		}
		if !strings.Contains(strings.ToLower(value), strings.ToLower(f.Value)) {
			return false
		}
	}
	return true
}

func less(a, b model.Note, orders []query.Order) bool {
	for _, o := range orders {
		c := compare(a, b, o.Column)
		if c == 0 {
			continue
		}
		if o.Direction == query.Desc {
			return c > 0
		}
		return c < 0
	}
	// ключи равны: порядок по id, иначе он зависит от обхода map
	return a.ID < b.ID
}

func compare(a, b model.Note, column query.Column) int {
	switch column {
	case query.ColumnTitle:
		return strings.Compare(a.Title, b.Title)
	case query.ColumnContent:
		return strings.Compare(a.Content, b.Content)
	case query.ColumnCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case query.ColumnUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	}
}

type tx struct {
	repo    *repo
	pending map[int64]model.Note
}

func (t *tx) FindByID(ctx context.Context, id int64) (model.Note, error) {
	if note, ok := t.pending[id]; ok {
		return note, nil
	}

	note, exists := t.repo.notes[id]
	if !exists {
		return model.Note{}, repository.ErrNoteNotFound
	}

	return note, nil
}

func (t *tx) Save(ctx context.Context, note model.Note) (model.Note, error) {
	current, err := t.FindByID(ctx, note.ID)
	if err != nil {
		return model.Note{}, err
	}

	current.Title = note.Title
	current.Content = note.Content
	current.UpdatedAt = note.UpdatedAt.UTC()
	t.pending[note.ID] = current

	return current, nil
}
