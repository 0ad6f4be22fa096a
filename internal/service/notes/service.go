package notes

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"notes-api/internal/model"
	"notes-api/internal/query"
	"notes-api/internal/repository"
	svc "notes-api/internal/service"
	"notes-api/internal/validation"
)

const noteEntity = "Note"

var _ svc.NoteService = (*service)(nil)

type service struct {
	store  repository.NoteStore
	events *EventService
	logger *zap.Logger
	now    func() time.Time
}

// Option настройка сервиса заметок
type Option func(*service)

// WithEvents включает публикацию событий об изменениях
func WithEvents(events *EventService) Option {
	return func(s *service) {
		s.events = events
	}
}

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// NewNoteService создает новый экземпляр сервиса для работы с заметками
func NewNoteService(store repository.NoteStore, logger *zap.Logger, opts ...Option) svc.NoteService {
	s := &service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create проверяет входные данные и сохраняет заметку через хранилище
func (s *service) Create(ctx context.Context, input model.CreateNoteInput) (model.Note, error) {
	if err := validation.Create(input); err != nil {
		return model.Note{}, s.invalid(err)
	}

	note, err := s.store.Insert(ctx, model.Note{
		Title:   input.Title,
		Content: input.Content,
	})
	if err != nil {
		return model.Note{}, s.storageError(err, 0)
	}

	s.events.Publish(NoteEvent{Type: EventCreated, Note: note, At: s.now()})

	return note, nil
}

// Get возвращает заметку по её ID
func (s *service) Get(ctx context.Context, id int64) (model.Note, error) {
	note, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.Note{}, s.storageError(err, id)
	}

	return note, nil
}

// List проверяет параметры, строит план и запрашивает страницу и общее количество
func (s *service) List(ctx context.Context, params model.SearchParams) (model.Page[model.Note], error) {
	search, err := validation.Search(params)
	if err != nil {
		return model.Page[model.Note]{}, s.invalid(err)
	}

	plan := query.Build(search)

	// Между подсчетом и выборкой возможны конкурентные записи
	total, err := s.store.Count(ctx, plan.Filters)
	if err != nil {
		return model.Page[model.Note]{}, s.storageError(err, 0)
	}

	notes, err := s.store.Find(ctx, plan)
	if err != nil {
		return model.Page[model.Note]{}, s.storageError(err, 0)
	}
	if notes == nil {
		notes = []model.Note{}
	}

	s.logger.Debug("notes listed",
		zap.Uint64("page", search.Page),
		zap.Uint64("size", search.Size),
		zap.Uint64("total", total),
		zap.Int("count", len(notes)),
	)

	return model.Page[model.Note]{
		Items: notes,
		Info:  query.BuildPageInfo(search.Page, search.Size, total),
	}, nil
}

// Update выполняет чтение, слияние и запись в одной транзакции.
// Если заметки нет, транзакция прерывается до записи.
func (s *service) Update(ctx context.Context, id int64, input model.UpdateNoteInput) (model.Note, error) {
	if err := validation.Update(input); err != nil {
		return model.Note{}, s.invalid(err)
	}

	var updated model.Note
	err := s.store.InTx(ctx, func(tx repository.Tx) error {
		current, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}

		updated, err = tx.Save(ctx, ApplyUpdate(current, input, s.now()))
		return err
	})
	if err != nil {
		return model.Note{}, s.storageError(err, id)
	}

	s.events.Publish(NoteEvent{Type: EventUpdated, Note: updated, At: s.now()})

	return updated, nil
}

// Delete удаляет заметку. Ноль удаленных строк означает, что заметки не было.
func (s *service) Delete(ctx context.Context, id int64) error {
	affected, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return s.storageError(err, id)
	}
	if affected == 0 {
		return s.storageError(repository.ErrNoteNotFound, id)
	}

	s.events.Publish(NoteEvent{Type: EventDeleted, Note: model.Note{ID: id}, At: s.now()})

	return nil
}

func (s *service) invalid(err error) error {
	var vErr *validation.Error
	if !errors.As(err, &vErr) {
		return s.storageError(err, 0)
	}

	s.logger.Warn("validation failed", zap.String("reason", vErr.Message))
	return svc.ValidationError(vErr.Message)
}

// storageError переводит ошибки хранилища в ошибки сервиса:
// ErrNoteNotFound - NotFound, все остальное - Internal.
func (s *service) storageError(err error, id int64) error {
	if errors.Is(err, repository.ErrNoteNotFound) {
		s.logger.Warn("note not found", zap.Int64("id", id))
		return svc.NotFoundError(noteEntity, id)
	}

	s.logger.Error("storage failure", zap.Int64("id", id), zap.Error(err))
	return svc.InternalError(err)
}
