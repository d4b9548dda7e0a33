package api

import (
	"context"
	"time"
)

// JobTimeout bounds a single background job run
const JobTimeout = 30 * time.Second

// WithJobTimeout derives the context a background job runs under
func WithJobTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, JobTimeout)
}
