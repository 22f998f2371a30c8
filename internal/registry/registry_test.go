package registry

import (
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shape interface{ Sides() int }

type square struct{ size int }

func (square) Sides() int { return 4 }

type triangle struct{}

func (triangle) Sides() int { return 3 }

func newShapes(t *testing.T) *Registry[int, shape] {
	t.Helper()
	r := New[int, shape]("shape")
	require.NoError(t, r.Register("square", func(size int) (shape, error) { return square{size: size}, nil }))
	require.NoError(t, r.Register("triangle", func(int) (shape, error) { return triangle{}, nil }))
	return r
}

func TestNewKnownTag(t *testing.T) {
	r := newShapes(t)

	got, err := r.New("square", 3)
	require.NoError(t, err)
	assert.Equal(t, square{size: 3}, got)
	assert.Equal(t, 4, got.Sides())
}

func TestNewUnknownTag(t *testing.T) {
	r := newShapes(t)

	got, err := r.New("hexagon", 1)
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTag))

	var regErr *Error
	require.True(t, errors.As(err, &regErr))
	assert.Equal(t, "shape", regErr.Kind)
	assert.Equal(t, "hexagon", regErr.Tag)
	assert.Contains(t, err.Error(), `unknown shape type "hexagon"`)
}

func TestConstructorErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	r := New[string, int]("number")
	require.NoError(t, r.Register("int", func(s string) (int, error) {
		if s == "" {
			return 0, boom
		}
		return strconv.Atoi(s)
	}))

	_, err := r.New("int", "")
	assert.ErrorIs(t, err, boom)

	n, err := r.New("int", "42")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestRegisterValidation(t *testing.T) {
	r := New[int, int]("n")
	ctor := func(i int) (int, error) { return i, nil }

	assert.ErrorIs(t, r.Register("", ctor), ErrEmptyTag)
	assert.ErrorIs(t, r.Register("x", nil), ErrNilConstructor)
	require.NoError(t, r.Register("x", ctor))
	assert.ErrorIs(t, r.Register("x", ctor), ErrDuplicateTag)
	assert.Panics(t, func() { r.MustRegister("x", ctor) })
}

func TestTagsSorted(t *testing.T) {
	r := newShapes(t)

	assert.Equal(t, []string{"square", "triangle"}, r.Tags())
	assert.Equal(t, 2, r.Len())
	assert.True(t, r.Has("triangle"))
	assert.False(t, r.Has("circle"))
	assert.Equal(t, "shape", r.Kind())
}

func TestConcurrentNew(t *testing.T) {
	r := newShapes(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.New("square", i)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}
