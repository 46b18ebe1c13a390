package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/quickdesk/internal/domain"
)

func TestTicketWhere(t *testing.T) {
	creator := "u-1"
	status := domain.TicketStatusOpen
	category := domain.CategoryTechnical
	search := "  Printer JAM "
	blank := "   "

	tests := []struct {
		name   string
		filter TicketFilter
		where  string
		args   []any
	}{
		{
			name:   "no filters",
			filter: TicketFilter{},
			where:  "1=1",
			args:   []any{},
		},
		{
			name:   "creator only",
			filter: TicketFilter{CreatorID: &creator},
			where:  "1=1 AND creator_id=$1",
			args:   []any{"u-1"},
		},
		{
			name:   "status without creator starts at one",
			filter: TicketFilter{Status: &status},
			where:  "1=1 AND status=$1",
			args:   []any{domain.TicketStatusOpen},
		},
		{
			name:   "search reuses one placeholder",
			filter: TicketFilter{Category: &category, SearchTerm: &search},
			where:  "1=1 AND category=$1 AND (LOWER(subject) LIKE $2 OR LOWER(description) LIKE $2)",
			args:   []any{domain.CategoryTechnical, "%printer jam%"},
		},
		{
			name:   "all filters",
			filter: TicketFilter{CreatorID: &creator, Status: &status, Category: &category, SearchTerm: &search},
			where:  "1=1 AND creator_id=$1 AND status=$2 AND category=$3 AND (LOWER(subject) LIKE $4 OR LOWER(description) LIKE $4)",
			args:   []any{"u-1", domain.TicketStatusOpen, domain.CategoryTechnical, "%printer jam%"},
		},
		{
			name:   "blank search is ignored",
			filter: TicketFilter{CreatorID: &creator, SearchTerm: &blank},
			where:  "1=1 AND creator_id=$1",
			args:   []any{"u-1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := ticketWhere(tt.filter)
			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.args, args)
		})
	}
}
