package media

import (
	"strconv"
	"strings"

	domain "socialmedia-api/internal/domain/media"
)

// compileFilters renders fs as an OR of fully-matching predicates. Placeholder
// numbering continues after the first `offset` arguments.
func compileFilters(fs []domain.ClaimFilter, offset int) (string, []any) {
	var (
		b    strings.Builder
		args = make([]any, 0, len(fs)*4)
	)

	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(offset+len(args))
	}

	for idx, f := range fs {
		if idx > 0 {
			b.WriteString(" OR ")
		}
		b.WriteString("(id = ")
		b.WriteString(next(f.ID))
		b.WriteString(" AND format = ")
		b.WriteString(next(string(f.Format)))
		b.WriteString(" AND status = ")
		b.WriteString(next(string(f.Status)))
		b.WriteString(" AND uploaded_by = ")
		b.WriteString(next(f.Owner))
		b.WriteString(")")
	}

	return b.String(), args
}
