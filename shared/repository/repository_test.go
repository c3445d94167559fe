package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"seva/infras/otel/mocks"
	"seva/shared/dto"
)

type sortModel struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	CreatedAt string `db:"created_at"`
}

func TestRepository_OrderingClause(t *testing.T) {
	repo := NewRepository[sortModel]("sortModel", "sort_models", "id", nil, mocks.NewOtel())

	tests := []struct {
		name     string
		sortBy   string
		sortDir  string
		expected string
	}{
		{
			name:     "sorts by a mapped column",
			sortBy:   "name",
			sortDir:  "ASC",
			expected: "ORDER BY name ASC",
		},
		{
			name:     "normalizes a lowercase direction",
			sortBy:   "name",
			sortDir:  "desc",
			expected: "ORDER BY name DESC",
		},
		{
			name:     "rejects an unmapped column",
			sortBy:   "name; DROP TABLE sort_models --",
			sortDir:  "ASC",
			expected: "ORDER BY created_at ASC",
		},
		{
			name:     "rejects a subquery expression",
			sortBy:   "(SELECT 1 FROM bookings LIMIT 1)",
			sortDir:  "DESC",
			expected: "ORDER BY created_at DESC",
		},
		{
			name:     "rejects an unknown direction",
			sortBy:   "name",
			sortDir:  "ASC, id",
			expected: "ORDER BY name DESC",
		},
		{
			name:     "yields nothing without sort params",
			sortBy:   "",
			sortDir:  "",
			expected: "",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := repo.orderingClause(dto.QueryParams{SortBy: test.sortBy, SortDir: test.sortDir})

			assert.Equal(t, test.expected, got)
		})
	}
}
