package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// A nil pool proves malformed ids are answered without a query.
func TestPGRepo_MalformedIDNeverReachesDatabase(t *testing.T) {
	r := NewPGRepo(nil)
	ctx := context.Background()

	_, err := r.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.Update(ctx, &Product{ID: "42"}), ErrNotFound)
	assert.ErrorIs(t, r.SetImage(ctx, "", "http://img"), ErrNotFound)

	ok, err := r.Delete(ctx, "abc")
	assert.NoError(t, err)
	assert.False(t, ok)
}
