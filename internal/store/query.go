package store

import (
	"fmt"
	"strings"
)

const maxLimit = 500

// ItemQuery narrows ListItems. All fields are optional; string filters match
// case-insensitive substrings.
type ItemQuery struct {
	City   *string
	Search *string
	UserID *string
	Limit  int // 0 means no limit
	Offset int
}

const baseItemsSelect = `SELECT id, date, title, description, location, city,
	phone_number, user_name, user_id
FROM items`

const itemsOrderBy = "date DESC, seq ASC"

// ToSQL builds the data query and its positional parameters.
func (q *ItemQuery) ToSQL() (string, []any) {
	var (
		conditions []string
		args       []any
	)
	paramIdx := 1

	if q.City != nil {
		conditions = append(conditions, fmt.Sprintf("city ILIKE $%d", paramIdx))
		args = append(args, likePattern(*q.City))
		paramIdx++
	}

	if q.Search != nil && *q.Search != "" {
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", paramIdx))
		args = append(args, likePattern(*q.Search))
		paramIdx++
	}

	if q.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", paramIdx))
		args = append(args, *q.UserID)
	}

	var b strings.Builder
	b.WriteString(baseItemsSelect)
	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(itemsOrderBy)

	if limit := q.limit(); limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	}
	if q.Offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", q.Offset)
	}

	return b.String(), args
}

func (q *ItemQuery) limit() int {
	return min(max(q.Limit, 0), maxLimit)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps s for a substring ILIKE match, escaping wildcards.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
