package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilder(t *testing.T) {
	t.Parallel()

	base := stderrors.New("file vanished")
	err := New(base).
		Component("pipeline").
		Category(CategoryFileIO).
		Context("path", "/tmp/data.csv").
		Build()

	assert.Equal(t, "file vanished", err.Error())
	assert.Equal(t, "pipeline", err.Component)
	assert.Equal(t, string(CategoryFileIO), err.GetCategory())
	assert.Equal(t, "/tmp/data.csv", err.GetContext()["path"])
	assert.False(t, err.Timestamp.IsZero())
	assert.ErrorIs(t, err, base)
}

func TestNewfDefaults(t *testing.T) {
	t.Parallel()

	err := Newf("bad week %d", 52).Build()
	assert.Equal(t, "bad week 52", err.Error())
	assert.Equal(t, CategoryGeneric, err.Category)
	assert.NotEmpty(t, err.Component)
}

func TestCategoryMatching(t *testing.T) {
	t.Parallel()

	a := Newf("one").Category(CategoryValidation).Build()
	b := Newf("two").Category(CategoryValidation).Build()
	c := Newf("three").Category(CategoryNetwork).Build()

	// Enhanced errors match on category.
	assert.True(t, a.Is(b))
	assert.False(t, a.Is(c))
}

func TestContextIsCopied(t *testing.T) {
	t.Parallel()

	err := Newf("boom").Context("key", "value").Build()
	ctx := err.GetContext()
	ctx["key"] = "mutated"
	assert.Equal(t, "value", err.GetContext()["key"])
}

func TestUnwrapChain(t *testing.T) {
	t.Parallel()

	base := stderrors.New("root cause")
	wrapped := Newf("wrapping: %w", base).Build()

	require.ErrorIs(t, wrapped, base)
	var ee *EnhancedError
	assert.ErrorAs(t, error(wrapped), &ee)
}
