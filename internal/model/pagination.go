package model

import (
	"strings"
)

// SearchParams сырые параметры поиска в том виде, в каком они пришли из query string.
// nil означает, что параметр не передан.
type SearchParams struct {
	Title   *string
	Content *string
	Page    *string
	Size    *string
	OrderBy *string
}

// SortFieldName поле, по которому разрешена сортировка
type SortFieldName int

const (
	SortByID SortFieldName = iota
	SortByTitle
	SortByContent
	SortByCreatedAt
	SortByUpdatedAt
)

var sortFieldNames = []string{"id", "title", "content", "createdAt", "updatedAt"}

// String возвращает имя поля в том написании, в котором оно принимается в orderBy
func (f SortFieldName) String() string {
	if f < 0 || int(f) >= len(sortFieldNames) {
		return "unknown"
	}
	return sortFieldNames[f]
}

// ParseSortFieldName разбирает имя поля сортировки (с учетом регистра)
func ParseSortFieldName(name string) (SortFieldName, bool) {
	for i, n := range sortFieldNames {
		if n == name {
			return SortFieldName(i), true
		}
	}
	return 0, false
}

// SortFieldNames возвращает список допустимых полей через запятую
func SortFieldNames() string {
	return strings.Join(sortFieldNames, ", ")
}

// SortDirection направление сортировки
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortField одно поле сортировки с направлением
type SortField struct {
	Name      SortFieldName
	Direction SortDirection
}

// PageInfo метаданные страницы результата
type PageInfo struct {
	Size          uint64
	Number        uint64 // 0, если результатов нет
	TotalElements uint64
	TotalPages    uint64
}

// Page страница результатов вместе с метаданными
type Page[T any] struct {
	Items []T
	Info  PageInfo
}
