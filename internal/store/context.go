package store

import (
	"context"

	"gorm.io/gorm"
)

type loaderKey struct{}

// WithLoader attaches a request-scoped profile loader to ctx
func WithLoader(ctx context.Context, loader *ProfileLoader) context.Context {
	return context.WithValue(ctx, loaderKey{}, loader)
}

// LoaderFrom returns the loader attached to ctx, or a fresh one bound to db
func LoaderFrom(ctx context.Context, db *gorm.DB) *ProfileLoader {
	if l, ok := ctx.Value(loaderKey{}).(*ProfileLoader); ok && l != nil {
		return l
	}
	return NewProfileLoader(db)
}
