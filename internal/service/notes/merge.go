package notes

import (
	"time"

	"notes-api/internal/model"
)

// ApplyUpdate возвращает новую версию заметки: переданные поля заменяются,
// отсутствующие остаются прежними. UpdatedAt обновляется всегда, даже если
// ни одно поле не передано, и строго больше предыдущего значения.
func ApplyUpdate(current model.Note, input model.UpdateNoteInput, now time.Time) model.Note {
	updated := current

	if input.Title != nil {
		updated.Title = *input.Title
	}
	if input.Content != nil {
		updated.Content = *input.Content
	}

	now = now.UTC()
	if !now.After(current.UpdatedAt) {
		// часы не успели сдвинуться (или хранилище округлило метку)
		now = current.UpdatedAt.Add(time.Microsecond)
	}
	updated.UpdatedAt = now

	return updated
}
