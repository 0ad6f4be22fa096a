package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"notes-api/internal/model"
	"notes-api/internal/query"
)

const (
	// MaxTitleLen максимальная длина заголовка в символах
	MaxTitleLen = 255

	// DefaultPage номер страницы, если параметр не передан
	DefaultPage uint64 = 1

	// DefaultSize размер страницы, если параметр не передан
	DefaultSize uint64 = 20

	// MaxSize верхняя граница размера страницы
	MaxSize uint64 = 100
)

// Error ошибка валидации входных данных. Сообщение отдается клиенту как есть.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func errorf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// StringFilter проверяет, что строковый фильтр не пустой, если он передан
func StringFilter(raw *string, name string) error {
	if raw == nil {
		return nil
	}
	if strings.TrimSpace(*raw) == "" {
		return errorf("Parameter '%s' must not be blank", name)
	}
	return nil
}

// Page разбирает номер страницы. Результат никогда не меньше 1.
func Page(raw *string) (uint64, error) {
	if raw == nil {
		return DefaultPage, nil
	}

	value, err := parseUint(*raw, "page")
	if err != nil {
		return 0, err
	}

	return max(value, 1), nil
}

// Size разбирает размер страницы.
// Нижняя граница не применяется: "0" проходит как 0.
func Size(raw *string) (uint64, error) {
	if raw == nil {
		return DefaultSize, nil
	}

	value, err := parseUint(*raw, "size")
	if err != nil {
		return 0, err
	}

	if value > MaxSize {
		return 0, errorf("Parameter 'size' must not exceed %d", MaxSize)
	}

	return value, nil
}

func parseUint(raw, name string) (uint64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, errorf("Parameter '%s' must not be blank", name)
	}

	value, err := strconv.ParseUint(strings.TrimPrefix(trimmed, "+"), 10, 64)
	if err != nil {
		return 0, errorf("Parameter '%s' must be a positive integer, got '%s'", name, trimmed)
	}

	return value, nil
}

// OrderBy разбирает список полей сортировки вида "title,-createdAt".
// Префикс '-' означает убывание, '+' или его отсутствие - возрастание.
// Порядок полей сохраняется.
func OrderBy(raw *string) ([]model.SortField, error) {
	if raw == nil {
		return nil, nil
	}

	var fields []model.SortField
	for _, token := range strings.Split(*raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		direction := model.Ascending
		name := token
		if rest, ok := strings.CutPrefix(token, "-"); ok {
			direction = model.Descending
			name = rest
		} else {
			name = strings.TrimPrefix(token, "+")
		}

		fieldName, ok := model.ParseSortFieldName(name)
		if !ok {
			return nil, errorf("Unknown sort field: '%s'. Valid fields: %s", name, model.SortFieldNames())
		}

		fields = append(fields, model.SortField{Name: fieldName, Direction: direction})
	}

	if len(fields) == 0 {
		return nil, errorf("Parameter 'orderBy' must contain at least one field. Valid fields: %s", model.SortFieldNames())
	}

	return fields, nil
}

// Title проверяет заголовок заметки
func Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return errorf("Field 'title' must not be empty")
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return errorf("Field 'title' must be at most %d characters", MaxTitleLen)
	}
	return nil
}

// Content проверяет содержимое заметки
func Content(content string) error {
	if strings.TrimSpace(content) == "" {
		return errorf("Field 'content' must not be empty")
	}
	return nil
}

// Create проверяет данные для создания заметки: сначала title, затем content
func Create(in model.CreateNoteInput) error {
	if err := Title(in.Title); err != nil {
		return err
	}
	return Content(in.Content)
}

// Update проверяет только переданные поля
func Update(in model.UpdateNoteInput) error {
	if in.Title != nil {
		if err := Title(*in.Title); err != nil {
			return err
		}
	}
	if in.Content != nil {
		if err := Content(*in.Content); err != nil {
			return err
		}
	}
	return nil
}

// Search проверяет и нормализует параметры поиска.
// Порядок проверок фиксирован, возвращается первая ошибка.
func Search(params model.SearchParams) (query.Search, error) {
	if err := StringFilter(params.Title, "title"); err != nil {
		return query.Search{}, err
	}
	if err := StringFilter(params.Content, "content"); err != nil {
		return query.Search{}, err
	}

	page, err := Page(params.Page)
	if err != nil {
		return query.Search{}, err
	}

	size, err := Size(params.Size)
	if err != nil {
		return query.Search{}, err
	}

	sort, err := OrderBy(params.OrderBy)
	if err != nil {
		return query.Search{}, err
	}

	return query.Search{
		Title:   params.Title,
		Content: params.Content,
		Page:    page,
		Size:    size,
		Sort:    sort,
	}, nil
}
