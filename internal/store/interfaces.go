package store

import (
	"context"

	"github.com/imgvault/imgvault/internal/model"
)

// ResultWriter provides write access to result metadata.
type ResultWriter interface {
	CreateResult(ctx context.Context, r model.Result) error
}

// ResultReader provides read access to result metadata.
type ResultReader interface {
	// LatestResultID returns the id of the most recently registered result.
	// Returns sql.ErrNoRows when the table is empty.
	LatestResultID(ctx context.Context) (string, error)
	GetResult(ctx context.Context, id string) (*model.Result, error)
	CountResults(ctx context.Context) (int, error)
}

