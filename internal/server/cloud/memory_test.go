package cloud

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	m := NewMemoryStorage("market")
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "listings/a.json", []byte("x"), "application/json"))
	b, ok := m.Object("listings/a.json")
	require.True(t, ok)
	assert.Equal(t, "x", string(b))

	u, err := m.PresignGet(ctx, "listings/a.json", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "memory://market/listings/a.json?expires=3600", u)

	require.NoError(t, m.Delete(ctx, "listings/a.json"))
	require.NoError(t, m.Delete(ctx, "listings/a.json"))
	_, ok = m.Object("listings/a.json")
	assert.False(t, ok)

	m.FailWith = errors.New("down")
	assert.EqualError(t, m.Put(ctx, "k", nil, ""), "down")
}
