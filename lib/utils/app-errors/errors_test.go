package apperrors

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	t.Run(`wrapped app error`, func(t *testing.T) {
		err := errors.Wrap(Conflict("Already archived"), "archive task")
		appErr, ok := Classify(err)
		require.True(t, ok)
		require.Equal(t, CodeConflict, appErr.Code)
		require.Equal(t, "Already archived", appErr.Message)
		require.Equal(t, http.StatusConflict, appErr.Code.HTTPStatus())
	})
	t.Run(`duplicated key`, func(t *testing.T) {
		appErr, ok := Classify(errors.Wrap(gorm.ErrDuplicatedKey, "insert"))
		require.True(t, ok)
		require.Equal(t, CodeIntegrity, appErr.Code)
		require.Equal(t, http.StatusBadRequest, appErr.Code.HTTPStatus())
	})
	t.Run(`internal error`, func(t *testing.T) {
		appErr, ok := Classify(errors.New("connection reset"))
		require.False(t, ok)
		require.Equal(t, CodeInternal, appErr.Code)
		require.Equal(t, http.StatusInternalServerError, appErr.Code.HTTPStatus())
	})
	t.Run(`validation status`, func(t *testing.T) {
		require.Equal(t, http.StatusUnprocessableEntity, CodeValidation.HTTPStatus())
		require.True(t, IsCode(Validation("bad", nil), CodeValidation))
	})
}
