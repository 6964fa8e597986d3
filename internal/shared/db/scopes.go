package db

import (
	"gorm.io/gorm"

	"github.com/orris-inc/proxypanel/internal/shared/query"
)

// Paginate applies the filter's offset and limit.
func Paginate(f query.PageFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(f.Offset()).Limit(f.Limit())
	}
}

// OrderBy applies the filter's sort when the column is in allowed, and
// fallback otherwise. Sort columns come from request input, so they are
// never interpolated unless whitelisted.
func OrderBy(f query.SortFilter, allowed map[string]bool, fallback string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.SortBy != "" && allowed[f.SortBy] {
			return db.Order(f.OrderClause())
		}
		return db.Order(fallback)
	}
}
