package util

import (
	"testing"

	"catalogquery/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	id := NewID()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
	assert.NotEqual(t, id, NewID())
}

func TestMockItemsDeterministic(t *testing.T) {
	a := MockItems(50, 7)
	b := MockItems(50, 7)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, MockItems(50, 8))
}

func TestMockItemsAreValid(t *testing.T) {
	items := MockItems(200, 99)
	require.Len(t, items, 200)

	seen := map[string]bool{}
	for _, item := range items {
		assert.NoError(t, domain.ValidateItem(item))
		assert.False(t, seen[item.ID], "duplicate id %s", item.ID)
		seen[item.ID] = true
		assert.LessOrEqual(t, item.Price, 2000.0)
	}
	assert.Equal(t, "item-0001", items[0].ID)
}

func TestMockItemsEmpty(t *testing.T) {
	assert.Empty(t, MockItems(0, 1))
	assert.Empty(t, MockItems(-3, 1))
}
