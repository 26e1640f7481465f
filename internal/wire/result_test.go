package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult_OkAndErr(t *testing.T) {
	t.Parallel()
	ok := Ok(42)
	assert.True(t, ok.IsOk())
	assert.Equal(t, 42, ok.Value)
	assert.Nil(t, ok.Err)

	failed := Err[int](NewError(ErrNotFound, "missing item"))
	assert.False(t, failed.IsOk())
	assert.Equal(t, 0, failed.Value)
	assert.Equal(t, ErrNotFound, failed.Err.Code)
}

func TestError_ErrorString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "NotFound: missing item", NewError(ErrNotFound, "missing item").Error())
	assert.Equal(t, "Internal", NewError(ErrInternal, "").Error())
}
