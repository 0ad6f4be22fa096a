package sqlstore

import (
	"strings"

	"notes-api/internal/query"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereClause переводит фильтры плана в WHERE с плейсхолдерами '?'.
// Имена колонок берутся только из констант query.Column.
func whereClause(filters []query.Filter) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}

	conditions := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))
	for _, f := range filters {
		conditions = append(conditions, "LOWER("+string(f.Column)+`) LIKE LOWER(?) ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(f.Value)+"%")
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func orderClause(orders []query.Order) string {
	if len(orders) == 0 {
		orders = query.DefaultOrder
	}

	parts := make([]string, 0, len(orders))
	for _, o := range orders {
		parts = append(parts, string(o.Column)+" "+string(o.Direction))
	}

	return " ORDER BY " + strings.Join(parts, ", ")
}
