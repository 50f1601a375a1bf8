package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c := New[string]()

	c.Set("k", "v", time.Minute)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestExpiration(t *testing.T) {
	c := New[int]()

	c.Set("k", 1, time.Nanosecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.ItemCount())
}

func TestDeleteAndClear(t *testing.T) {
	c := New[int]()

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.ItemCount())

	c.Clear()
	assert.Equal(t, 0, c.ItemCount())
}

func TestGetWithFunc(t *testing.T) {
	c := New[[]string]()

	calls := 0
	fetch := func() ([]string, error) {
		calls++
		return []string{"x"}, nil
	}

	got, err := c.GetWithFunc("k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got)

	// Second call is served from cache
	_, err = c.GetWithFunc("k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestGetWithFuncError(t *testing.T) {
	c := New[int]()

	_, err := c.GetWithFunc("k", time.Minute, func() (int, error) {
		return 0, errors.New("boom")
	})
	assert.Error(t, err)
	assert.Equal(t, 0, c.ItemCount())
}
