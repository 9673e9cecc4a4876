package todo

import (
	"errors"
	"testing"
	"time"
)

func TestNewTodo_Success(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.FixedZone("JST", 9*60*60))

	got, err := NewTodo("buy milk", now)
	if err != nil {
		t.Fatalf("NewTodo returned error: %v", err)
	}

	if got.Text != "buy milk" {
		t.Errorf("expected Text=%q, got %q", "buy milk", got.Text)
	}
	if got.Completed {
		t.Errorf("expected Completed=false, got true")
	}
	if got.ID != "" {
		t.Errorf("expected empty ID before persistence, got %q", got.ID)
	}

	want := time.Date(2024, 5, 1, 1, 0, 0, 123000000, time.UTC)
	if !got.CreatedAt.Equal(want) || got.CreatedAt.Location() != time.UTC {
		t.Errorf("expected CreatedAt=%v (UTC, ms), got %v", want, got.CreatedAt)
	}
}

func TestNewTodo_EmptyText(t *testing.T) {
	t.Parallel()

	_, err := NewTodo("", time.Now())
	if !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	str := func(s string) *string { return &s }
	boolean := func(b bool) *bool { return &b }

	tests := []struct {
		name    string
		initial Todo
		patch   Patch
		want    Todo
		wantErr error
	}{
		{
			name:    "empty patch leaves todo unchanged",
			initial: Todo{ID: "a", Text: "x", Completed: true},
			patch:   Patch{},
			want:    Todo{ID: "a", Text: "x", Completed: true},
		},
		{
			name:    "completed only",
			initial: Todo{ID: "a", Text: "x"},
			patch:   Patch{Completed: boolean(true)},
			want:    Todo{ID: "a", Text: "x", Completed: true},
		},
		{
			// false でも「指定あり」なので反映される
			name:    "explicit false is applied",
			initial: Todo{ID: "a", Text: "x", Completed: true},
			patch:   Patch{Completed: boolean(false)},
			want:    Todo{ID: "a", Text: "x", Completed: false},
		},
		{
			name:    "text only",
			initial: Todo{ID: "a", Text: "x", Completed: true},
			patch:   Patch{Text: str("y")},
			want:    Todo{ID: "a", Text: "y", Completed: true},
		},
		{
			name:    "empty text is rejected and nothing changes",
			initial: Todo{ID: "a", Text: "x"},
			patch:   Patch{Text: str(""), Completed: boolean(true)},
			want:    Todo{ID: "a", Text: "x"},
			wantErr: ErrEmptyText,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.initial
			err := got.Apply(tt.patch)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected err=%v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestPatch_IsEmpty(t *testing.T) {
	t.Parallel()

	done := false
	if !(Patch{}).IsEmpty() {
		t.Error("expected zero Patch to be empty")
	}
	if (Patch{Completed: &done}).IsEmpty() {
		t.Error("expected Patch with completed=false to be non-empty")
	}
}
