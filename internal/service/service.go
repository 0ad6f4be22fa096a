package service

import (
	"context"

	"notes-api/internal/model"
)

// NoteService интерфейс для бизнес-логики работы с заметками
type NoteService interface {
	// Create проверяет входные данные и создает новую заметку
	Create(ctx context.Context, input model.CreateNoteInput) (model.Note, error)

	// Get возвращает заметку по её ID
	Get(ctx context.Context, id int64) (model.Note, error)

	// List возвращает страницу заметок с фильтрацией и сортировкой
	List(ctx context.Context, params model.SearchParams) (model.Page[model.Note], error)

	// Update частично обновляет заметку (меняются только переданные поля)
	Update(ctx context.Context, id int64, input model.UpdateNoteInput) (model.Note, error)

	// Delete удаляет заметку по ID
	Delete(ctx context.Context, id int64) error
}
