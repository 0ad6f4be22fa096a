package converter

import (
	"fmt"
	"time"

	"notes-api/internal/model"
)

// NoteResponse представление заметки в ответе API
type NoteResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// PageInfoResponse метаданные страницы в ответе API
type PageInfoResponse struct {
	Size          uint64 `json:"size"`
	Number        uint64 `json:"number"`
	TotalElements uint64 `json:"totalElements"`
	TotalPages    uint64 `json:"totalPages"`
}

// NotePageResponse страница заметок в ответе API
type NotePageResponse struct {
	Notes []NoteResponse   `json:"notes"`
	Page  PageInfoResponse `json:"page"`
}

// FormatTimestamp форматирует время в UTC вида
// "Thursday, 3rd August 2034, 12:45:34 PM UTC"
func FormatTimestamp(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s, %d%s %s",
		t.Format("Monday"),
		t.Day(),
		ordinalSuffix(t.Day()),
		t.Format("January 2006, 03:04:05 PM UTC"),
	)
}

func ordinalSuffix(day int) string {
	switch {
	case day%100 >= 11 && day%100 <= 13:
		return "th"
	case day%10 == 1:
		return "st"
	case day%10 == 2:
		return "nd"
	case day%10 == 3:
		return "rd"
	default:
		return "th"
	}
}

// ModelToResponse конвертирует domain модель Note в ответ API
func ModelToResponse(note model.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: FormatTimestamp(note.CreatedAt),
		UpdatedAt: FormatTimestamp(note.UpdatedAt),
	}
}

// ModelsToResponses конвертирует слайс domain моделей, пустой слайс остается пустым (не nil)
func ModelsToResponses(notes []model.Note) []NoteResponse {
	responses := make([]NoteResponse, len(notes))
	for i, note := range notes {
		responses[i] = ModelToResponse(note)
	}

	return responses
}

// PageToResponse конвертирует страницу заметок в ответ API
func PageToResponse(page model.Page[model.Note]) NotePageResponse {
	return NotePageResponse{
		Notes: ModelsToResponses(page.Items),
		Page: PageInfoResponse{
			Size:          page.Info.Size,
			Number:        page.Info.Number,
			TotalElements: page.Info.TotalElements,
			TotalPages:    page.Info.TotalPages,
		},
	}
}
