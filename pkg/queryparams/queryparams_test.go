package queryparams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateClampsValues(t *testing.T) {
	params := ListParams{Page: -3, PerPage: 1000, OrderBy: "DESC"}
	params.Validate()
	assert.Equal(t, DefaultPage, params.Page)
	assert.Equal(t, MaxPerPage, params.PerPage)
	assert.Equal(t, "desc", params.OrderBy)

	params = ListParams{OrderBy: "sideways"}
	params.Validate()
	assert.Equal(t, DefaultPerPage, params.PerPage)
	assert.Equal(t, "asc", params.OrderBy)
}

func TestOffset(t *testing.T) {
	params := ListParams{Page: 3, PerPage: 20}
	assert.Equal(t, 40, params.Offset())
}

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 0, CalculateTotalPages(0, 20))
	assert.Equal(t, 1, CalculateTotalPages(20, 20))
	assert.Equal(t, 2, CalculateTotalPages(21, 20))
	assert.Equal(t, 0, CalculateTotalPages(5, 0))
}
