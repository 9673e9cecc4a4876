// Package memory はプロセス内で完結する Repository 実装。
// テストや、DB 無しで HTTP 層を動かしたいときに使う。
package memory

import (
	"context"
	"sort"
	"sync"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TodoRepository struct {
	mu    sync.Mutex
	items map[string]domain_todo.Todo
}

func NewTodoRepository() *TodoRepository {
	return &TodoRepository{
		items: make(map[string]domain_todo.Todo),
	}
}

func (r *TodoRepository) List(ctx context.Context) ([]*domain_todo.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todos := make([]*domain_todo.Todo, 0, len(r.items))
	for _, t := range r.items {
		t := t
		todos = append(todos, &t)
	}

	// map の順番は保証されないので createdAt 降順に並べ直す（同時刻は ID 降順）
	sort.Slice(todos, func(i, j int) bool {
		if todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].ID > todos[j].ID
		}
		return todos[i].CreatedAt.After(todos[j].CreatedAt)
	})
	return todos, nil
}

func (r *TodoRepository) Create(ctx context.Context, t *domain_todo.Todo) (*domain_todo.Todo, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Mongo 実装と同じ形式の ID を振る
	t.ID = primitive.NewObjectID().Hex()
	r.items[t.ID] = *t
	return t, nil
}

func (r *TodoRepository) FindByID(ctx context.Context, id string) (*domain_todo.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok {
		return nil, domain_todo.ErrNotFound
	}
	return &t, nil
}

func (r *TodoRepository) Save(ctx context.Context, t *domain_todo.Todo) (*domain_todo.Todo, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[t.ID]
	if !ok {
		return nil, domain_todo.ErrNotFound
	}

	// createdAt は不変
	stored.Text = t.Text
	stored.Completed = t.Completed
	r.items[t.ID] = stored

	out := stored
	return &out, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}
