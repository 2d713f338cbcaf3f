package ports

import "context"

// ListTransformer turns one comma-separated list into its transformed tokens.
type ListTransformer interface {
	TransformList(ctx context.Context, list string) ([]string, error)
}

// ListTransformerFunc adapts a plain function to ListTransformer.
type ListTransformerFunc func(ctx context.Context, list string) ([]string, error)

// TransformList calls f(ctx, list).
func (f ListTransformerFunc) TransformList(ctx context.Context, list string) ([]string, error) {
	return f(ctx, list)
}
