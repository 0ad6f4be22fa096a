package model

import (
	"time"
)

// Note представляет заметку (доменная модель)
type Note struct {
	ID        int64     // Идентификатор, назначается хранилищем
	Title     string    // Заголовок заметки
	Content   string    // Содержание заметки
	CreatedAt time.Time // Дата создания (UTC)
	UpdatedAt time.Time // Дата последнего обновления (UTC)
}

// IsEmpty проверяет, пуста ли заметка
func (n *Note) IsEmpty() bool {
	return n.ID == 0 && n.Title == "" && n.Content == ""
}

// CreateNoteInput входные данные для создания заметки
type CreateNoteInput struct {
	Title   string
	Content string
}

// UpdateNoteInput входные данные для частичного обновления заметки.
// nil означает "оставить без изменений", любое другое значение заменяет поле целиком.
type UpdateNoteInput struct {
	Title   *string
	Content *string
}
