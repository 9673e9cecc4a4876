package httpadapter

import (
	"net/http"

	todo_usecase "github.com/hijjiri/todo-api/internal/usecase/todo"
	"go.uber.org/zap"
)

type TodoHandler struct {
	uc     todo_usecase.Usecase
	logger *zap.Logger
}

func NewTodoHandler(uc todo_usecase.Usecase, logger *zap.Logger) *TodoHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoHandler{uc: uc, logger: logger}
}

// --- Ping (GET /test) ---
// ストアに触らずにプロセスの疎通だけ確認する
func (h *TodoHandler) Ping(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	writeMessage(w, http.StatusOK, "Server is working!")
}

// --- List ---
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	list, err := h.uc.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTodoResponses(list))
}

// --- Create ---
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req createTodoRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	var text string
	if req.Text != nil {
		text = *req.Text
	}

	t, err := h.uc.Create(r.Context(), text)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTodoResponse(t))
}

// --- Update (partial) ---
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	var req updateTodoRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	t, err := h.uc.Update(r.Context(), pathParams["id"], patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTodoResponse(t))
}

// --- Delete ---
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	if err := h.uc.Delete(r.Context(), pathParams["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Todo deleted")
}

func (h *TodoHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := toHTTPError(err)

	if status >= http.StatusInternalServerError {
		rid, _ := RequestIDFromContext(r.Context())
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", rid),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	writeMessage(w, status, msg)
}
