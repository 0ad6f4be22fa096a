package notes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"notes-api/internal/model"
)

func TestApplyUpdate(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	current := model.Note{ID: 1, Title: "title", Content: "content", CreatedAt: created, UpdatedAt: created}
	now := created.Add(time.Hour)

	title := "new title"
	content := "new content"

	tests := []struct {
		name  string
		input model.UpdateNoteInput
		want  model.Note
	}{
		{
			name:  "nothing present",
			input: model.UpdateNoteInput{},
			want:  model.Note{ID: 1, Title: "title", Content: "content", CreatedAt: created, UpdatedAt: now},
		},
		{
			name:  "title only",
			input: model.UpdateNoteInput{Title: &title},
			want:  model.Note{ID: 1, Title: "new title", Content: "content", CreatedAt: created, UpdatedAt: now},
		},
		{
			name:  "both",
			input: model.UpdateNoteInput{Title: &title, Content: &content},
			want:  model.Note{ID: 1, Title: "new title", Content: "new content", CreatedAt: created, UpdatedAt: now},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyUpdate(current, tt.input, now))
		})
	}

	// исходное значение не меняется
	assert.Equal(t, "title", current.Title)
}

func TestApplyUpdate_TimestampAlwaysAdvances(t *testing.T) {
	stamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	current := model.Note{ID: 1, UpdatedAt: stamp}

	same := ApplyUpdate(current, model.UpdateNoteInput{}, stamp)
	assert.True(t, same.UpdatedAt.After(stamp))

	past := ApplyUpdate(current, model.UpdateNoteInput{}, stamp.Add(-time.Hour))
	assert.True(t, past.UpdatedAt.After(stamp))
}
