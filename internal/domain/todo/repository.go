package todo

import "context"

// Repository は Todo ドキュメントの永続化を抽象化する。
//   - FindByID は見つからない場合（ID の形式不正を含む）ErrNotFound を返す
//   - Delete は削除件数 > 0 なら true を返す
type Repository interface {
	List(ctx context.Context) ([]*Todo, error)
	Create(ctx context.Context, t *Todo) (*Todo, error)
	FindByID(ctx context.Context, id string) (*Todo, error)
	Save(ctx context.Context, t *Todo) (*Todo, error)
	Delete(ctx context.Context, id string) (bool, error)
}
