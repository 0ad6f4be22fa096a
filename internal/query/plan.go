package query

import (
	"math"
	"math/bits"

	"notes-api/internal/model"
)

// MaxOffset верхняя граница смещения. Больше не принимают SQL хранилища (BIGINT).
const MaxOffset uint64 = math.MaxInt64

// Search проверенные параметры поиска
type Search struct {
	Title   *string
	Content *string
	Page    uint64 // >= 1
	Size    uint64 // <= 100
	Sort    []model.SortField
}

// Filter предикат "содержит подстроку" (без учета регистра, без wildcard)
type Filter struct {
	Column Column
	Value  string
}

// Plan описание запроса, не зависящее от хранилища.
// Фильтры объединяются через AND.
type Plan struct {
	Filters []Filter
	Order   []Order
	Offset  uint64
	Limit   uint64
}

// Build строит план запроса. Ввода-вывода не выполняет.
func Build(s Search) Plan {
	var filters []Filter
	if s.Title != nil {
		filters = append(filters, Filter{Column: ColumnTitle, Value: *s.Title})
	}
	if s.Content != nil {
		filters = append(filters, Filter{Column: ColumnContent, Value: *s.Content})
	}

	return Plan{
		Filters: filters,
		Order:   OrderFor(s.Sort),
		Offset:  offsetFor(s.Page, s.Size),
		Limit:   s.Size,
	}
}

// offsetFor считает (page-1)*size. При переполнении смещение ограничивается
// MaxOffset, и выборка за пределами данных остается пустой.
func offsetFor(page, size uint64) uint64 {
	if page <= 1 {
		return 0
	}

	hi, lo := bits.Mul64(page-1, size)
	if hi != 0 || lo > MaxOffset {
		return MaxOffset
	}
	return lo
}

// BuildPageInfo считает метаданные страницы.
// Если страниц нет, номер страницы равен 0 независимо от запрошенного.
func BuildPageInfo(page, size, total uint64) model.PageInfo {
	var totalPages uint64
	if size > 0 {
		totalPages = total / size
		if total%size != 0 {
			totalPages++
		}
	}

	number := page
	if totalPages == 0 {
		number = 0
	}

	return model.PageInfo{
		Size:          size,
		Number:        number,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}
