package helper

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Page is one page of rows plus the unpaged total.
type Page[T any] struct {
	Items []T
	Total int64
}

// ApplySearch adds a case-insensitive substring match across columns, OR-joined.
func ApplySearch(tx *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return tx
	}
	like := "%" + strings.ToLower(term) + "%"
	parts := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, "LOWER("+col+") LIKE ?")
		args = append(args, like)
	}
	return tx.Where("("+strings.Join(parts, " OR ")+")", args...)
}

// ApplyEquals adds exact-match filters, skipping nil and empty values.
func ApplyEquals(tx *gorm.DB, filters map[string]any) *gorm.DB {
	for col, v := range filters {
		switch t := v.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(t) == "" {
				continue
			}
			tx = tx.Where(col+" = ?", strings.TrimSpace(t))
		case *string:
			if t == nil || strings.TrimSpace(*t) == "" {
				continue
			}
			tx = tx.Where(col+" = ?", strings.TrimSpace(*t))
		case *bool:
			if t == nil {
				continue
			}
			tx = tx.Where(col+" = ?", *t)
		default:
			tx = tx.Where(col+" = ?", v)
		}
	}
	return tx
}

// FetchPage counts then loads one page. No rows is an empty page, not an error.
// On storage failure the returned page is empty and err carries the cause for logging.
func FetchPage[T any](ctx context.Context, tx *gorm.DB, q ListQuery, order string) (Page[T], error) {
	out := Page[T]{Items: []T{}}

	var total int64
	if err := tx.WithContext(ctx).Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return out, err
	}
	if total == 0 {
		return out, nil
	}

	var rows []T
	find := tx.WithContext(ctx).Session(&gorm.Session{})
	if order != "" {
		find = find.Order(order)
	}
	if err := find.Offset(q.Offset).Limit(q.Limit).Find(&rows).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return out, nil
		}
		return out, err
	}
	out.Items = rows
	out.Total = total
	return out, nil
}
