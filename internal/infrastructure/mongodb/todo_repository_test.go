package mongodb

import (
	"context"
	"testing"
	"time"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testNS = "todo.lists"

func todoDoc(id primitive.ObjectID, text string, completed bool, createdAt time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "text", Value: text},
		{Key: "completed", Value: completed},
		{Key: "createdAt", Value: primitive.NewDateTimeFromTime(createdAt)},
	}
}

func TestTodoRepository_List(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("sorted by createdAt desc", func(mt *mtest.T) {
		newer := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
		older := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		id1, id2 := primitive.NewObjectID(), primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch,
			todoDoc(id2, "newer", true, newer),
			todoDoc(id1, "older", false, older),
		))

		repo := NewTodoRepository(mt.Coll, nil)
		got, err := repo.List(context.Background())
		require.NoError(mt, err)
		require.Len(mt, got, 2)

		assert.Equal(mt, id2.Hex(), got[0].ID)
		assert.Equal(mt, "newer", got[0].Text)
		assert.True(mt, got[0].Completed)
		assert.True(mt, got[0].CreatedAt.Equal(newer))
		assert.Equal(mt, id1.Hex(), got[1].ID)

		// find コマンドに sort {createdAt: -1} が付いていること
		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
		sort, err := started.Command.LookupErr("sort")
		require.NoError(mt, err)
		assert.Equal(mt, int32(-1), sort.Document().Lookup("createdAt").Int32())
	})

	mt.Run("empty collection returns empty slice", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch))

		repo := NewTodoRepository(mt.Coll, nil)
		got, err := repo.List(context.Background())
		require.NoError(mt, err)
		assert.NotNil(mt, got)
		assert.Empty(mt, got)
	})

	mt.Run("storage error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "boom",
		}))

		repo := NewTodoRepository(mt.Coll, nil)
		_, err := repo.List(context.Background())
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "boom")
	})
}

func TestTodoRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		repo := NewTodoRepository(mt.Coll, nil)
		td, err := domain_todo.NewTodo("buy milk", time.Now())
		require.NoError(mt, err)

		got, err := repo.Create(context.Background(), td)
		require.NoError(mt, err)

		_, hexErr := primitive.ObjectIDFromHex(got.ID)
		assert.NoError(mt, hexErr)
		assert.Equal(mt, "buy milk", got.Text)
		assert.False(mt, got.Completed)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)
	})

	mt.Run("empty text is rejected before insert", func(mt *mtest.T) {
		repo := NewTodoRepository(mt.Coll, nil)

		_, err := repo.Create(context.Background(), &domain_todo.Todo{Text: ""})
		assert.ErrorIs(mt, err, domain_todo.ErrEmptyText)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestTodoRepository_FindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch,
			todoDoc(id, "x", false, createdAt),
		))

		repo := NewTodoRepository(mt.Coll, nil)
		got, err := repo.FindByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), got.ID)
		assert.Equal(mt, "x", got.Text)
		assert.True(mt, got.CreatedAt.Equal(createdAt))
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch))

		repo := NewTodoRepository(mt.Coll, nil)
		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, domain_todo.ErrNotFound)
	})

	mt.Run("malformed id is not found", func(mt *mtest.T) {
		repo := NewTodoRepository(mt.Coll, nil)

		_, err := repo.FindByID(context.Background(), "not-an-object-id")
		assert.ErrorIs(mt, err, domain_todo.ErrNotFound)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestTodoRepository_Save(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("updates text and completed only", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		repo := NewTodoRepository(mt.Coll, nil)
		td := &domain_todo.Todo{ID: primitive.NewObjectID().Hex(), Text: "x", Completed: true}

		got, err := repo.Save(context.Background(), td)
		require.NoError(mt, err)
		assert.Same(mt, td, got)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)

		updates := started.Command.Lookup("updates").Array()
		first, err := updates.IndexErr(0)
		require.NoError(mt, err)
		set := first.Value().Document().Lookup("u", "$set").Document()
		assert.Equal(mt, "x", set.Lookup("text").StringValue())
		assert.True(mt, set.Lookup("completed").Boolean())
		_, err = set.LookupErr("createdAt")
		assert.Error(mt, err, "createdAt must not be rewritten")
	})

	mt.Run("no match is not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		repo := NewTodoRepository(mt.Coll, nil)
		_, err := repo.Save(context.Background(), &domain_todo.Todo{ID: primitive.NewObjectID().Hex(), Text: "x"})
		assert.ErrorIs(mt, err, domain_todo.ErrNotFound)
	})

	mt.Run("empty text is rejected", func(mt *mtest.T) {
		repo := NewTodoRepository(mt.Coll, nil)

		_, err := repo.Save(context.Background(), &domain_todo.Todo{ID: primitive.NewObjectID().Hex()})
		assert.ErrorIs(mt, err, domain_todo.ErrEmptyText)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestTodoRepository_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		repo := NewTodoRepository(mt.Coll, nil)
		ok, err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		require.NoError(mt, err)
		assert.True(mt, ok)
	})

	mt.Run("already absent", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		repo := NewTodoRepository(mt.Coll, nil)
		ok, err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		require.NoError(mt, err)
		assert.False(mt, ok)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewTodoRepository(mt.Coll, nil)

		ok, err := repo.Delete(context.Background(), "zzz")
		require.NoError(mt, err)
		assert.False(mt, ok)
	})
}

func TestDatabaseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{name: "explicit", opts: Options{URI: "mongodb://localhost:27017/other", Database: "explicit"}, want: "explicit"},
		{name: "from uri path", opts: Options{URI: "mongodb://localhost:27017/todo"}, want: "todo"},
		{name: "default", opts: Options{URI: "mongodb://localhost:27017"}, want: "todo"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := databaseName(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConnect_InvalidURI(t *testing.T) {
	t.Parallel()

	_, err := Connect(context.Background(), Options{URI: "not a uri"}, nil)
	assert.ErrorIs(t, err, ErrStartup)
}

// 到達できないストアでは access check で失敗し、起動エラーとして返る
func TestConnect_Unreachable(t *testing.T) {
	t.Parallel()

	start := time.Now()
	_, err := Connect(context.Background(), Options{
		URI:            "mongodb://127.0.0.1:1/todo",
		ConnectTimeout: 300 * time.Millisecond,
	}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStartup)
	assert.Less(t, time.Since(start), 5*time.Second)
}
