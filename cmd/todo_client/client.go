package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type todo struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

type message struct {
	Message string `json:"message"`
}

// apiError はサーバが返した {message} 付きのエラー
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient(base string, hc *http.Client) *apiClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &apiClient{base: strings.TrimRight(base, "/"), http: hc}
}

func (c *apiClient) Ping(ctx context.Context) (string, error) {
	var out message
	err := c.do(ctx, http.MethodGet, "/test", nil, &out)
	return out.Message, err
}

func (c *apiClient) List(ctx context.Context) ([]todo, error) {
	var out []todo
	err := c.do(ctx, http.MethodGet, "/api/todos", nil, &out)
	return out, err
}

func (c *apiClient) Create(ctx context.Context, text string) (*todo, error) {
	var out todo
	if err := c.do(ctx, http.MethodPost, "/api/todos", map[string]any{"text": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update は指定されたフィールドだけを送る（nil は送らない）
func (c *apiClient) Update(ctx context.Context, id string, text *string, completed *bool) (*todo, error) {
	body := map[string]any{}
	if text != nil {
		body["text"] = *text
	}
	if completed != nil {
		body["completed"] = *completed
	}

	var out todo
	if err := c.do(ctx, http.MethodPut, "/api/todos/"+url.PathEscape(id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) Delete(ctx context.Context, id string) (string, error) {
	var out message
	err := c.do(ctx, http.MethodDelete, "/api/todos/"+url.PathEscape(id), nil, &out)
	return out.Message, err
}

func (c *apiClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		var m message
		_ = json.NewDecoder(res.Body).Decode(&m)
		return &apiError{Status: res.StatusCode, Message: m.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
