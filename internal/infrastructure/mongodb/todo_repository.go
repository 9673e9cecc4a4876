package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// todoDocument はコレクションに保存される形。
type todoDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Text      string             `bson:"text"`
	Completed bool               `bson:"completed"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *todoDocument) toDomain() *domain_todo.Todo {
	return &domain_todo.Todo{
		ID:        d.ID.Hex(),
		Text:      d.Text,
		Completed: d.Completed,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

type TodoRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

func NewTodoRepository(coll *mongo.Collection, logger *zap.Logger) *TodoRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoRepository{coll: coll, logger: logger}
}

// List は createdAt 降順（新しいものが先頭）で全件返す。0 件なら空スライス。
func (r *TodoRepository) List(ctx context.Context) ([]*domain_todo.Todo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find todos: %w", err)
	}
	defer cur.Close(ctx)

	var docs []todoDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}

	todos := make([]*domain_todo.Todo, 0, len(docs))
	for i := range docs {
		todos = append(todos, docs[i].toDomain())
	}
	return todos, nil
}

// Create は domain の Todo を INSERT して ID を付けて返す
func (r *TodoRepository) Create(ctx context.Context, t *domain_todo.Todo) (*domain_todo.Todo, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	doc := todoDocument{
		ID:        primitive.NewObjectID(),
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}

	t.ID = doc.ID.Hex()
	return t, nil
}

// FindByID は形式不正な ID も「見つからない」として扱う
func (r *TodoRepository) FindByID(ctx context.Context, id string) (*domain_todo.Todo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain_todo.ErrNotFound
	}

	var doc todoDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain_todo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find todo %s: %w", id, err)
	}
	return doc.toDomain(), nil
}

// Save は読み込み済みの Todo の変更を書き戻す。
// 変更可能なのは text / completed だけで、createdAt は書き換えない。
func (r *TodoRepository) Save(ctx context.Context, t *domain_todo.Todo) (*domain_todo.Todo, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return nil, domain_todo.ErrNotFound
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "text", Value: t.Text},
		{Key: "completed", Value: t.Completed},
	}}}
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, update)
	if err != nil {
		return nil, fmt.Errorf("update todo %s: %w", t.ID, err)
	}
	if res.MatchedCount == 0 {
		return nil, domain_todo.ErrNotFound
	}
	return t, nil
}

// Delete は削除件数 > 0 なら true を返す
func (r *TodoRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return false, fmt.Errorf("delete todo %s: %w", id, err)
	}

	if res.DeletedCount == 0 {
		r.logger.Debug("delete matched no document", zap.String("id", id))
	}
	return res.DeletedCount > 0, nil
}
