package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		sortBy, dir string
		field       SortField
		desc        bool
	}{
		{"", "", SortCreateTime, true},
		{"createTime", "  ", SortCreateTime, true},
		{"createTime", "asc", SortCreateTime, false},
		{"createTime", "desc", SortCreateTime, true},
		{"SUBJECT", "DESC", SortSubject, true},
		{"replycount", "asc", SortReplyCount, false},
		{"upvotes", "descending", SortUpvotes, false},
		{"updateTime", "Desc", SortUpdateTime, true},
		{"password_hash", "desc", SortCreateTime, true},
	}
	for _, tt := range tests {
		field, desc := ParseSort(tt.sortBy, tt.dir)
		assert.Equal(t, tt.field, field, "sortBy=%q", tt.sortBy)
		assert.Equal(t, tt.desc, desc, "dir=%q", tt.dir)
	}
}

func TestTicketFilter_OrderClause(t *testing.T) {
	assert.Equal(t, "reply_count DESC, id DESC", TicketFilter{SortBy: SortReplyCount, SortDesc: true}.OrderClause())
	assert.Equal(t, "created_at ASC, id ASC", TicketFilter{}.OrderClause())
}

func TestTicketFilter_Page(t *testing.T) {
	limit, offset := TicketFilter{}.Page()
	assert.Equal(t, DefaultPageSize, limit)
	assert.Zero(t, offset)

	limit, offset = TicketFilter{Limit: 1000, Offset: -4}.Page()
	assert.Equal(t, MaxPageSize, limit)
	assert.Zero(t, offset)
}

func TestTicketFilter_SearchPattern(t *testing.T) {
	blank := "   "
	term := " Printer "
	assert.Empty(t, TicketFilter{}.SearchPattern())
	assert.Empty(t, TicketFilter{SearchTerm: &blank}.SearchPattern())
	assert.Equal(t, "%printer%", TicketFilter{SearchTerm: &term}.SearchPattern())
}
