package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	MaxPage      = 100000
)

// ListQuery is the page-level filter state of a list request.
type ListQuery struct {
	Page   int
	Limit  int
	Offset int
	Search string
}

// ResolveListQuery reads ?page=, ?limit= (alias ?per_page=) and ?search= (alias ?q=).
// page is clamped to [1, MaxPage] and limit to [1, maxLimit]; maxLimit 0 falls back to MaxLimit.
func ResolveListQuery(c *fiber.Ctx, defaultLimit, maxLimit int) ListQuery {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}

	page, _ := strconv.Atoi(strings.TrimSpace(c.Query("page", "1")))
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}

	limitStr := strings.TrimSpace(c.Query("limit"))
	if limitStr == "" {
		limitStr = strings.TrimSpace(c.Query("per_page"))
	}
	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 {
		limit = defaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	search := strings.TrimSpace(c.Query("search"))
	if search == "" {
		search = strings.TrimSpace(c.Query("q"))
	}

	return ListQuery{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
		Search: search,
	}
}

func (q ListQuery) Pagination(total int64) Pagination {
	return BuildPagination(total, q.Page, q.Limit)
}
