package helper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lib/pq"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

// Slugify turns free text into [a-z0-9-], stripping diacritics. Empty input yields "item".
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 100
	}
	s = strings.ToLower(strings.TrimSpace(s))

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = string(buf)

	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if utf8.RuneCountInString(s) > maxLen {
		s = strings.Trim(string([]rune(s)[:maxLen]), "-")
	}
	if s == "" {
		s = "item"
	}
	return s
}

// EnsureUniqueSlug returns base, or base-N with the next free suffix in table.column.
// Soft-deleted rows still hold their slug, matching the unique index.
func EnsureUniqueSlug(ctx context.Context, db *gorm.DB, base, table, column string) (string, error) {
	col := pq.QuoteIdentifier(column)

	var count int64
	if err := db.WithContext(ctx).Table(table).
		Where(col+" = ?", base).
		Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return base, nil
	}

	var slugs []string
	if err := db.WithContext(ctx).Table(table).
		Where(col+" LIKE ?", base+"-%").
		Pluck(column, &slugs).Error; err != nil {
		return "", err
	}

	maxN := 1
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(base) + `-(\d+)$`)
	for _, s := range slugs {
		m := re.FindStringSubmatch(s)
		if len(m) != 2 {
			continue
		}
		var n int
		fmt.Sscanf(m[1], "%d", &n)
		if n > maxN {
			maxN = n
		}
	}
	return fmt.Sprintf("%s-%d", base, maxN+1), nil
}
