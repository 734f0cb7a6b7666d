package pagination

import (
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query is bound from the query string. Nil fields take the defaults; zero
// or out of range values fail validation.
type Query struct {
	Page   *int   `form:"page" binding:"omitempty,min=1"`
	Limit  *int   `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search" binding:"omitempty,max=100"`
}

type Params struct {
	Page   int
	Limit  int
	Search string
}

func (q Query) Params() Params {
	p := Params{Page: DefaultPage, Limit: DefaultLimit, Search: strings.TrimSpace(q.Search)}
	if q.Page != nil {
		p.Page = *q.Page
	}
	if q.Limit != nil {
		p.Limit = *q.Limit
	}
	return p
}

func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Paginate applies LIMIT/OFFSET.
func (p Params) Paginate(db *gorm.DB) *gorm.DB {
	return db.Offset(p.Offset()).Limit(p.Limit)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern builds a case-insensitive substring pattern for ILIKE with the
// wildcard characters of s escaped.
func LikePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}
