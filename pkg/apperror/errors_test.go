package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsMapToStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, NewValueError("quantity", "bad").Code)
	assert.Equal(t, http.StatusInternalServerError, NewIOError("write pdf", os.ErrPermission).Code)
	assert.Equal(t, http.StatusNotFound, NewNotFoundError("Export").Code)
	assert.Equal(t, http.StatusNotFound, Newf(KindNotFound, "logo %q", "x.png").Code)
	assert.Equal(t, KindValue, NewAppError(http.StatusBadRequest, "nope").Kind)
}

func TestIOErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("render: %w", NewIOError("write pdf", os.ErrPermission))

	assert.True(t, errors.Is(err, os.ErrPermission))
	assert.True(t, IsKind(err, KindIO))
	assert.False(t, IsKind(err, KindValue))
	assert.Contains(t, err.Error(), "write pdf")
}

func TestSentinelMatching(t *testing.T) {
	err := NewNotFoundError("Export")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrIO))
}

func TestGetAppErrorWrapsPlainErrors(t *testing.T) {
	appErr := GetAppError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, KindInternal, appErr.Kind)
	assert.Equal(t, "boom", appErr.Message)
}
