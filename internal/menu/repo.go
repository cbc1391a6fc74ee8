package menu

import "context"

// Repo stores the raw menu document as one nested tree.
type Repo interface {
	Get(ctx context.Context) (map[string]any, error)
	Put(ctx context.Context, doc map[string]any) error
}
