package audit

import "context"

type Repository interface {
	Insert(ctx context.Context, e *Entry) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Entry, int, error)
}
