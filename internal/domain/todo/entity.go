package todo

import (
	"errors"
	"time"
)

// Todo は Todo 集約のルートエンティティ。
// ID は永続化層が採番する（MongoDB の ObjectID を hex 文字列で保持）。
type Todo struct {
	ID        string
	Text      string
	Completed bool
	CreatedAt time.Time
}

// ---- ドメインエラー（sentinel error） ----

var (
	// text が空のときに使う共通エラー。
	ErrEmptyText = errors.New("todo text must not be empty")

	// ID に対応する Todo が存在しない（ID の形式不正も含む）。
	ErrNotFound = errors.New("Todo not found")
)

// ---- ファクトリ / バリデーション ----

// NewTodo は「新規作成用」のコンストラクタ。
// completed は false 固定、createdAt は now（ミリ秒精度に丸める。ストア側の精度に合わせる）。
func NewTodo(text string, now time.Time) (*Todo, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	return &Todo{
		Text:      text,
		Completed: false,
		CreatedAt: now.UTC().Truncate(time.Millisecond),
	}, nil
}

// ChangeText は text 変更用メソッド。
// 「空文字禁止」のルールをドメイン側に閉じ込める。
func (t *Todo) ChangeText(text string) error {
	if text == "" {
		return ErrEmptyText
	}
	t.Text = text
	return nil
}

// Validate は永続化前の不変条件チェック。
func (t *Todo) Validate() error {
	if t.Text == "" {
		return ErrEmptyText
	}
	return nil
}
