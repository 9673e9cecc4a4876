package httpadapter

import (
	"errors"
	"net/http"

	todo_usecase "github.com/hijjiri/todo-api/internal/usecase/todo"
)

// --- error mapper ---
// 返り値は (HTTP status, message)。message はそのままレスポンスの {message} になる。
func toHTTPError(err error) (int, string) {
	var bre *badRequestError

	switch {
	case errors.As(err, &bre):
		return http.StatusBadRequest, bre.Error()

	case errors.Is(err, todo_usecase.ErrEmptyText):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, todo_usecase.ErrNotFound):
		return http.StatusNotFound, "Todo not found"

	default:
		// ストアのエラー（タイムアウト含む）は文言をそのまま返す
		return http.StatusInternalServerError, err.Error()
	}
}
