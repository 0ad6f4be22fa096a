package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"notes-api/internal/model"
	"notes-api/internal/query"
	"notes-api/internal/repository"
)

const (
	keyPrefix     = "note:"
	versionSuffix = ":v"
)

var _ repository.NoteStore = (*Store)(nil)

var errStaleRead = errors.New("note changed since read")

// Store кэширует заметки по ID в Redis поверх другого NoteStore.
// Списки и подсчеты всегда идут в нижележащее хранилище.
type Store struct {
	next   repository.NoteStore
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New создает кэширующее хранилище
func New(next repository.NoteStore, client *redis.Client, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// cachedNote формат заметки в Redis
type cachedNote struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func key(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

// versionKey счетчик вытеснений заметки. Заполнение кэша после промаха
// проходит только если счетчик не изменился с момента чтения из хранилища.
func versionKey(id int64) string {
	return key(id) + versionSuffix
}

// version возвращает текущее значение счетчика, отсутствующий ключ - 0
func (s *Store) version(ctx context.Context, id int64) (int64, error) {
	v, err := s.client.Get(ctx, versionKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (s *Store) get(ctx context.Context, id int64) (model.Note, bool) {
	raw, err := s.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("cache read failed", zap.Int64("id", id), zap.Error(err))
		}
		return model.Note{}, false
	}

	var c cachedNote
	if err := json.Unmarshal(raw, &c); err != nil {
		s.logger.Warn("cache entry corrupted", zap.Int64("id", id), zap.Error(err))
		return model.Note{}, false
	}

	return model.Note{
		ID:        c.ID,
		Title:     c.Title,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}, true
}

func (s *Store) put(ctx context.Context, note model.Note) {
	raw, err := json.Marshal(cachedNote(note))
	if err != nil {
		s.logger.Warn("cache encode failed", zap.Int64("id", note.ID), zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, key(note.ID), raw, s.ttl).Err(); err != nil {
		s.logger.Warn("cache write failed", zap.Int64("id", note.ID), zap.Error(err))
	}
}

// fill кладет прочитанную заметку в кэш, если с момента seen заметку не вытесняли.
// Иначе запись пропускается: заметка могла быть прочитана до чужого коммита.
func (s *Store) fill(ctx context.Context, note model.Note, seen int64) {
	raw, err := json.Marshal(cachedNote(note))
	if err != nil {
		s.logger.Warn("cache encode failed", zap.Int64("id", note.ID), zap.Error(err))
		return
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey(note.ID)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != seen {
			return errStaleRead
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(note.ID), raw, s.ttl)
			return nil
		})
		return err
	}, versionKey(note.ID))

	switch {
	case err == nil:
	case errors.Is(err, errStaleRead), errors.Is(err, redis.TxFailedErr):
		s.logger.Debug("cache fill skipped, note changed concurrently", zap.Int64("id", note.ID))
	default:
		s.logger.Warn("cache write failed", zap.Int64("id", note.ID), zap.Error(err))
	}
}

func (s *Store) evict(ctx context.Context, id int64) {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(id))
		if s.ttl > 0 {
			pipe.Expire(ctx, versionKey(id), 2*s.ttl)
		}
		pipe.Del(ctx, key(id))
		return nil
	})
	if err != nil {
		s.logger.Warn("cache eviction failed", zap.Int64("id", id), zap.Error(err))
	}
}

// Insert сохраняет заметку и сразу кладет её в кэш
func (s *Store) Insert(ctx context.Context, note model.Note) (model.Note, error) {
	created, err := s.next.Insert(ctx, note)
	if err != nil {
		return model.Note{}, err
	}
	s.put(ctx, created)
	return created, nil
}

// FindByID читает из кэша, при промахе - из хранилища.
// Версия читается до хранилища, поэтому вытеснение между чтением и записью
// в кэш отменяет заполнение.
func (s *Store) FindByID(ctx context.Context, id int64) (model.Note, error) {
	if note, ok := s.get(ctx, id); ok {
		return note, nil
	}

	seen, verErr := s.version(ctx, id)
	if verErr != nil {
		s.logger.Warn("cache version read failed", zap.Int64("id", id), zap.Error(verErr))
	}

	note, err := s.next.FindByID(ctx, id)
	if err != nil {
		return model.Note{}, err
	}
	if verErr == nil {
		s.fill(ctx, note, seen)
	}

	return note, nil
}

func (s *Store) Find(ctx context.Context, plan query.Plan) ([]model.Note, error) {
	return s.next.Find(ctx, plan)
}

func (s *Store) Count(ctx context.Context, filters []query.Filter) (uint64, error) {
	return s.next.Count(ctx, filters)
}

// InTx выполняет транзакцию нижележащего хранилища.
// Сохраненные заметки вытесняются из кэша до и после коммита.
func (s *Store) InTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	var touched []int64

	err := s.next.InTx(ctx, func(tx repository.Tx) error {
		return fn(&trackingTx{Tx: tx, onSave: func(id int64) {
			touched = append(touched, id)
			s.evict(ctx, id)
		}})
	})

	for _, id := range touched {
		s.evict(ctx, id)
	}

	return err
}

// DeleteByID удаляет заметку и вытесняет её из кэша
func (s *Store) DeleteByID(ctx context.Context, id int64) (uint64, error) {
	affected, err := s.next.DeleteByID(ctx, id)
	if err != nil {
		return 0, err
	}
	s.evict(ctx, id)
	return affected, nil
}

// Ping проверяет и хранилище, и Redis
func (s *Store) Ping(ctx context.Context) error {
	if err := s.next.Ping(ctx); err != nil {
		return err
	}
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return errors.Join(s.client.Close(), s.next.Close())
}

type trackingTx struct {
	repository.Tx
	onSave func(id int64)
}

func (t *trackingTx) Save(ctx context.Context, note model.Note) (model.Note, error) {
	t.onSave(note.ID)
	return t.Tx.Save(ctx, note)
}
