// Package datasource abstracts where raw input bytes come from.
package datasource

import (
	"context"
	"io"
)

// Source opens one input partition.
type Source interface {
	// Name identifies the partition in logs, metrics and sink paths.
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}
