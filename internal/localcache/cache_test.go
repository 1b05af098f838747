package localcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T, maxBytes int64) *Cache {
	t.Helper()
	c, err := Open(Options{InMemory: true, MaxBytes: maxBytes})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_SetGetRemove(t *testing.T) {
	c := openTest(t, 0)

	require.NoError(t, c.Set("a", []byte("hello")))
	v, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(v))

	require.NoError(t, c.Remove("a"))
	_, err = c.Get("a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, c.Remove("missing"))
}

func TestCache_JSON(t *testing.T) {
	c := openTest(t, 0)
	type profile struct {
		Name string `json:"name"`
	}

	require.NoError(t, c.SetJSON(ProfileKey("u1"), profile{Name: "Ana"}))
	var got profile
	require.NoError(t, c.GetJSON("trainer_profile_u1", &got))
	assert.Equal(t, "Ana", got.Name)
}

func TestCache_Quota(t *testing.T) {
	c := openTest(t, 20)

	require.NoError(t, c.Set("k", []byte("0123456789")))
	assert.ErrorIs(t, c.Set("other", []byte("0123456789")), ErrQuotaExceeded)

	// Overwriting a key only counts the difference.
	require.NoError(t, c.Set("k", []byte("0123456789abcdef")))

	used, err := c.Usage()
	require.NoError(t, err)
	assert.Equal(t, int64(17), used)
	assert.NoError(t, c.Check())

	require.NoError(t, c.Set("k", []byte("0123456789abcdefghi")))
	assert.ErrorIs(t, c.Check(), ErrQuotaExceeded)
}

func TestCache_NilIsUnavailable(t *testing.T) {
	var c *Cache
	assert.ErrorIs(t, c.Set("a", nil), ErrUnavailable)
	_, err := c.Get("a")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, c.Remove("a"), ErrUnavailable)
	assert.ErrorIs(t, c.Check(), ErrUnavailable)
	_, err = c.Usage()
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NoError(t, c.Close())
}

func TestOpen_WithoutDir(t *testing.T) {
	_, err := Open(Options{})
	assert.ErrorIs(t, err, ErrUnavailable)
}
