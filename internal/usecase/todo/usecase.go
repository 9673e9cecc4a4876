package todo_usecase

import (
	"context"
	"errors"
	"time"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ===== エラー定数（Handler側からも使う） =====

var (
	ErrEmptyText = domain_todo.ErrEmptyText
	ErrNotFound  = domain_todo.ErrNotFound
)

const tracerName = "github.com/hijjiri/todo-api/internal/usecase/todo"

// ===== 外部に公開する Usecase インターフェース =====

type Usecase interface {
	List(ctx context.Context) ([]*domain_todo.Todo, error)
	Create(ctx context.Context, text string) (*domain_todo.Todo, error)
	Update(ctx context.Context, id string, patch domain_todo.Patch) (*domain_todo.Todo, error)
	Delete(ctx context.Context, id string) error
}

// ===== 実装 =====

type usecase struct {
	repo   domain_todo.Repository
	logger *zap.Logger
	tracer trace.Tracer
	now    func() time.Time
}

func New(repo domain_todo.Repository, logger *zap.Logger) Usecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &usecase{
		repo:   repo,
		logger: logger,
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
}

// List ユースケース（createdAt 降順は Repository が保証する）
func (u *usecase) List(ctx context.Context) ([]*domain_todo.Todo, error) {
	ctx, span := u.tracer.Start(ctx, "todo.List")
	defer span.End()

	todos, err := u.repo.List(ctx)
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.Int("todo.count", len(todos)))
	return todos, nil
}

// Create ユースケース
func (u *usecase) Create(ctx context.Context, text string) (*domain_todo.Todo, error) {
	ctx, span := u.tracer.Start(ctx, "todo.Create")
	defer span.End()

	t, err := domain_todo.NewTodo(text, u.now())
	if err != nil {
		return nil, fail(span, err)
	}

	created, err := u.repo.Create(ctx, t)
	if err != nil {
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.String("todo.id", created.ID))
	u.logger.Debug("todo created", zap.String("id", created.ID))
	return created, nil
}

// Update ユースケース
// 先に読み込んでから変更する（存在しない ID は書き込み前に ErrNotFound になる）。
func (u *usecase) Update(ctx context.Context, id string, patch domain_todo.Patch) (*domain_todo.Todo, error) {
	ctx, span := u.tracer.Start(ctx, "todo.Update", trace.WithAttributes(attribute.String("todo.id", id)))
	defer span.End()

	t, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}

	if patch.IsEmpty() {
		u.logger.Debug("empty patch", zap.String("id", id))
	}
	if err := t.Apply(patch); err != nil {
		return nil, fail(span, err)
	}

	updated, err := u.repo.Save(ctx, t)
	if err != nil {
		return nil, fail(span, err)
	}
	return updated, nil
}

// Delete ユースケース
func (u *usecase) Delete(ctx context.Context, id string) error {
	ctx, span := u.tracer.Start(ctx, "todo.Delete", trace.WithAttributes(attribute.String("todo.id", id)))
	defer span.End()

	if _, err := u.repo.FindByID(ctx, id); err != nil {
		return fail(span, err)
	}

	ok, err := u.repo.Delete(ctx, id)
	if err != nil {
		return fail(span, err)
	}
	if !ok {
		// 読み込み後に別リクエストで消されたケース
		return fail(span, ErrNotFound)
	}
	return nil
}

// fail は span にエラーを記録してそのまま返す。
// NotFound / バリデーションはクライアント起因なので span を Error にはしない。
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrEmptyText) {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
