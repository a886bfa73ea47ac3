package service

import (
	"context"
	"io"
)

// ObjectStore is the upload surface the candidate service needs.
// Interface for easier testing.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error)
}
