package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"go.uber.org/zap"
)

// ErrStartup は起動時の接続 / アクセス確認に失敗したことを表す。
// 呼び出し側（cmd/server）はこれを受けたらプロセスを終了させる想定。
var ErrStartup = errors.New("mongodb startup failed")

const (
	defaultDatabase   = "todo"
	defaultCollection = "lists"
)

// Options は接続先の設定。
type Options struct {
	URI            string
	Database       string // 空なら URI のパスから、それも無ければ "todo"
	Collection     string // 空なら "lists"
	ConnectTimeout time.Duration
}

// Client はプロセス全体で共有する MongoDB 接続。
// 起動時に一度だけ作り、以降は使い回す。
type Client struct {
	client     *mongo.Client
	db         *mongo.Database
	collection string
	logger     *zap.Logger
}

// Connect は接続を張り、listCollections で実際に操作できることを確認してから返す。
// どこで失敗しても ErrStartup でラップしたエラーを返す（リトライはしない）。
func Connect(ctx context.Context, opts Options, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dbName, err := databaseName(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStartup, err)
	}
	collection := opts.Collection
	if collection == "" {
		collection = defaultCollection
	}

	if opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", ErrStartup, err)
	}
	logger.Info("connection to MongoDB established", zap.String("db", dbName))

	// 接続できても権限が無いケースがあるので、軽い introspection で確認する
	db := client.Database(dbName)
	if _, err := db.ListCollectionNames(ctx, bson.D{}); err != nil {
		if dErr := client.Disconnect(context.Background()); dErr != nil {
			logger.Warn("failed to disconnect after access check", zap.Error(dErr))
		}
		return nil, fmt.Errorf("%w: access check: %w", ErrStartup, err)
	}

	logger.Info("connected and authenticated with MongoDB",
		zap.String("db", dbName),
		zap.String("collection", collection),
	)

	return &Client{
		client:     client,
		db:         db,
		collection: collection,
		logger:     logger,
	}, nil
}

// TodoRepository は設定されたコレクションに対する Repository を返す。
func (c *Client) TodoRepository() *TodoRepository {
	return NewTodoRepository(c.db.Collection(c.collection), c.logger)
}

// Disconnect は接続を閉じる。サーバ本体は使わない（プロセス終了まで保持する）。
func (c *Client) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

func databaseName(opts Options) (string, error) {
	if opts.Database != "" {
		return opts.Database, nil
	}

	cs, err := connstring.ParseAndValidate(opts.URI)
	if err != nil {
		return "", fmt.Errorf("parse connection string: %w", err)
	}
	if cs.Database != "" {
		return cs.Database, nil
	}
	return defaultDatabase, nil
}
