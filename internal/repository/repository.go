package repository

import (
	"context"
	"errors"

	"notes-api/internal/model"
	"notes-api/internal/query"
)

// ErrNoteNotFound возвращается, когда заметка не найдена
var ErrNoteNotFound = errors.New("note not found")

// NoteStore интерфейс хранилища заметок
type NoteStore interface {
	// Insert сохраняет новую заметку, назначает ID и временные метки
	Insert(ctx context.Context, note model.Note) (model.Note, error)

	// FindByID возвращает заметку по ID или ErrNoteNotFound
	FindByID(ctx context.Context, id int64) (model.Note, error)

	// Find выполняет план запроса: фильтры, сортировка, пагинация
	Find(ctx context.Context, plan query.Plan) ([]model.Note, error)

	// Count возвращает количество заметок, подходящих под фильтры (без пагинации)
	Count(ctx context.Context, filters []query.Filter) (uint64, error)

	// InTx выполняет fn в транзакции. Если fn вернула ошибку, транзакция откатывается.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// DeleteByID удаляет заметку и возвращает количество удаленных строк
	DeleteByID(ctx context.Context, id int64) (uint64, error)

	// Ping проверяет доступность хранилища
	Ping(ctx context.Context) error

	// Close освобождает ресурсы хранилища
	Close() error
}

// Tx доступ на чтение и запись одной строки внутри транзакции
type Tx interface {
	// FindByID читает заметку (с блокировкой, если хранилище это поддерживает)
	FindByID(ctx context.Context, id int64) (model.Note, error)

	// Save записывает title, content и updated_at заметки
	Save(ctx context.Context, note model.Note) (model.Note, error)
}
