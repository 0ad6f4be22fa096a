package query

import (
	"notes-api/internal/model"
)

// Column колонка хранилища, доступная для фильтрации и сортировки
type Column string

const (
	ColumnID        Column = "id"
	ColumnTitle     Column = "title"
	ColumnContent   Column = "content"
	ColumnCreatedAt Column = "created_at"
	ColumnUpdatedAt Column = "updated_at"
)

// Direction направление сортировки на стороне хранилища
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Order один критерий сортировки
type Order struct {
	Column    Column
	Direction Direction
}

// DefaultOrder порядок по умолчанию, дающий стабильную пагинацию
var DefaultOrder = []Order{{Column: ColumnID, Direction: Asc}}

// ColumnFor возвращает колонку для поля сортировки
func ColumnFor(name model.SortFieldName) Column {
	switch name {
	case model.SortByTitle:
		return ColumnTitle
	case model.SortByContent:
		return ColumnContent
	case model.SortByCreatedAt:
		return ColumnCreatedAt
	case model.SortByUpdatedAt:
		return ColumnUpdatedAt
	default:
		return ColumnID
	}
}

// DirectionFor возвращает направление сортировки хранилища
func DirectionFor(d model.SortDirection) Direction {
	if d == model.Descending {
		return Desc
	}
	return Asc
}

// OrderFor переводит поля сортировки в критерии хранилища.
// Первое поле - основной ключ, последующие разрешают равенство.
// Если id не указан, он добавляется последним (ASC), чтобы порядок был полным
// и страницы не пересекались при равных ключах.
func OrderFor(fields []model.SortField) []Order {
	if len(fields) == 0 {
		return append([]Order(nil), DefaultOrder...)
	}

	orders := make([]Order, 0, len(fields)+1)
	hasID := false
	for _, f := range fields {
		column := ColumnFor(f.Name)
		if column == ColumnID {
			hasID = true
		}
		orders = append(orders, Order{Column: column, Direction: DirectionFor(f.Direction)})
	}
	if !hasID {
		orders = append(orders, Order{Column: ColumnID, Direction: Asc})
	}
	return orders
}
