package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
)

// ---- request ----

type createTodoRequest struct {
	Text *string `json:"text"`
}

// updateTodoRequest はフィールドの「有無」を見たいので RawMessage で受ける。
type updateTodoRequest struct {
	Text      json.RawMessage `json:"text"`
	Completed json.RawMessage `json:"completed"`
}

var jsonNull = []byte("null")

func (req updateTodoRequest) toPatch() (domain_todo.Patch, error) {
	var p domain_todo.Patch

	if len(req.Text) > 0 {
		if bytes.Equal(req.Text, jsonNull) {
			return p, domain_todo.ErrEmptyText
		}
		var s string
		if err := json.Unmarshal(req.Text, &s); err != nil {
			return p, badRequest("text must be a string")
		}
		p.Text = &s
	}

	if len(req.Completed) > 0 {
		var b bool
		if bytes.Equal(req.Completed, jsonNull) || json.Unmarshal(req.Completed, &b) != nil {
			return p, badRequest("completed must be a boolean")
		}
		p.Completed = &b
	}

	return p, nil
}

// ---- response ----

type todoResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toTodoResponse(t *domain_todo.Todo) todoResponse {
	return todoResponse{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
	}
}

func toTodoResponses(list []*domain_todo.Todo) []todoResponse {
	out := make([]todoResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTodoResponse(t))
	}
	return out
}

// ---- encode / decode ----

// badRequestError はリクエストの形が不正なとき（JSON 壊れ・型違い）。
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}

// decodeJSON は body を dst に読み込む。空 body は {} 扱い。
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}
