package supabase

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/pkordes/numberfinder/backend/internal/domain"
)

// likeEscaper escapes LIKE metacharacters so the term matches literally once
// PostgREST has turned the surrounding '*' into '%'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// likePattern builds the quoted "*term*" filter value.
// PostgREST rewrites every '*' to '%' and offers no escape for it, so a '*'
// in the term goes out as '_' (any one character) and the rows that come
// back are rechecked with keepLiteralMatches.
func likePattern(term string) string {
	return quoteValue("*" + strings.ReplaceAll(escapeLike(term), "*", "_") + "*")
}

func needsRecheck(term string) bool {
	return strings.Contains(term, "*")
}

// keepLiteralMatches drops rows that matched only because a '*' in term was
// widened to a wildcard.
func keepLiteralMatches(contacts []domain.Contact, term string) []domain.Contact {
	fold := cases.Fold()
	needle := fold.String(term)
	out := contacts[:0]
	for _, c := range contacts {
		if strings.Contains(c.Phone, term) || strings.Contains(fold.String(c.Name), needle) {
			out = append(out, c)
		}
	}
	return out
}

// quoteEscaper escapes the characters that are special inside a double-quoted
// PostgREST filter value.
var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quoteValue wraps v in double quotes so commas, dots and parentheses in user
// input cannot break out of the or=() expression.
func quoteValue(v string) string {
	return `"` + quoteEscaper.Replace(v) + `"`
}
