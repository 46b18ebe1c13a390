package repository

import (
	"strings"

	"github.com/spec-kit/quickdesk/internal/domain"
)

// SortField is a sortable ticket attribute.
type SortField string

const (
	SortSubject    SortField = "subject"
	SortStatus     SortField = "status"
	SortCategory   SortField = "category"
	SortUpvotes    SortField = "upvotes"
	SortReplyCount SortField = "replyCount"
	SortCreateTime SortField = "createTime"
	SortUpdateTime SortField = "updateTime"
)

var sortColumns = map[SortField]string{
	SortSubject:    "subject",
	SortStatus:     "status",
	SortCategory:   "category",
	SortUpvotes:    "upvotes",
	SortReplyCount: "reply_count",
	SortCreateTime: "created_at",
	SortUpdateTime: "updated_at",
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// TicketFilter captures list parameters shared by every listing endpoint.
type TicketFilter struct {
	CreatorID  *string
	Status     *domain.TicketStatus
	Category   *domain.TicketCategory
	SearchTerm *string
	SortBy     SortField
	SortDesc   bool
	Limit      int
	Offset     int
}

// ParseSort maps request tokens to a sort. Unknown fields fall back to
// createTime. An omitted direction sorts descending; otherwise only "desc"
// (any case) does.
func ParseSort(sortBy, direction string) (SortField, bool) {
	direction = strings.TrimSpace(direction)
	desc := direction == "" || strings.EqualFold(direction, "desc")
	key := strings.ToLower(strings.TrimSpace(sortBy))
	for field := range sortColumns {
		if strings.ToLower(string(field)) == key {
			return field, desc
		}
	}
	return SortCreateTime, desc
}

// OrderClause renders the ORDER BY expression. The id tiebreaker keeps
// pagination stable when the sort column has duplicates.
func (f TicketFilter) OrderClause() string {
	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = sortColumns[SortCreateTime]
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	return column + " " + dir + ", id " + dir
}

// Page normalizes limit/offset.
func (f TicketFilter) Page() (limit, offset int) {
	limit = f.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	offset = f.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// SearchPattern returns the lower-cased LIKE pattern, or "" when unset.
func (f TicketFilter) SearchPattern() string {
	if f.SearchTerm == nil {
		return ""
	}
	term := strings.ToLower(strings.TrimSpace(*f.SearchTerm))
	if term == "" {
		return ""
	}
	return "%" + term + "%"
}
