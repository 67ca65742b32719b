package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mithrel/leancanvas/pkg/canvas"
)

// StorageKey is the single slot the canvas is persisted under.
const StorageKey = "leanCanvasData"

// Store persists one canvas record.
type Store interface {
	// Load returns ErrNotFound when nothing has been saved.
	Load(ctx context.Context) (canvas.Record, error)
	// Save writes the full record.
	Save(ctx context.Context, r canvas.Record) error
	// Clear removes the saved record. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
	Close() error
}

var (
	ErrNotFound = errors.New("not found")
	ErrCorrupt  = errors.New("stored canvas is not valid JSON")
)

// Open returns a Store based on a URL (sqlite://, file://, mem://).
func Open(ctx context.Context, dsn string) (Store, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return openSQLite(ctx, dsn)
	case strings.HasPrefix(dsn, "file://"):
		return openFile(strings.TrimPrefix(dsn, "file://"))
	case dsn == "mem://" || dsn == "mem":
		return NewMemStore(), nil
	case dsn == "":
		return nil, errors.New("storage dsn is empty")
	default:
		return nil, fmt.Errorf("unsupported storage dsn %q", dsn)
	}
}

func encodeRecord(r canvas.Record) ([]byte, error) {
	return json.Marshal(r)
}

func decodeRecord(data []byte) (canvas.Record, error) {
	var r canvas.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return canvas.Record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return r, nil
}
