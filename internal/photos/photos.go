// Package photos stores equipment photos by content reference, on local
// disk or in an S3-compatible bucket.
package photos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/erazemk/popis/internal/imaging"
	"github.com/erazemk/popis/internal/store"
)

// ErrNotExist is returned when no photo is stored under a ref.
var ErrNotExist = errors.New("photo does not exist")

// Store keeps photo bytes under their content ref. Put of an existing ref
// overwrites it with the same bytes.
type Store interface {
	Put(ctx context.Context, ref string, data []byte, contentType string) error
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}

func checkRef(ref string) error {
	if !imaging.ValidRef(ref) {
		return fmt.Errorf("invalid photo ref %q", ref)
	}
	return nil
}

// swapMu serializes photo swaps, so a ref is never released while another
// swap is about to point equipment at it.
var swapMu sync.Mutex

// Attach normalizes an uploaded photo, stores it and points the equipment
// record at it. The previous photo is deleted once nothing references it.
func Attach(ctx context.Context, db *sql.DB, st Store, equipmentID int64, upload io.Reader) (string, error) {
	photo, err := imaging.Process(upload)
	if err != nil {
		return "", err
	}

	swapMu.Lock()
	defer swapMu.Unlock()

	if err := st.Put(ctx, photo.Ref, photo.Data, photo.MIME); err != nil {
		return "", fmt.Errorf("storing photo: %w", err)
	}

	old, err := store.SetEquipmentPhoto(ctx, db, equipmentID, photo.Ref)
	if err != nil {
		release(ctx, db, st, photo.Ref)
		return "", err
	}
	if old != "" && old != photo.Ref {
		release(ctx, db, st, old)
	}
	return photo.Ref, nil
}

// release deletes a photo that no equipment refers to any more. Failures
// only leave an orphaned object behind, so they are logged.
func release(ctx context.Context, db *sql.DB, st Store, ref string) {
	n, err := store.CountPhotoReferences(ctx, db, ref)
	if err != nil {
		slog.Warn("counting photo references", "ref", ref, "error", err)
		return
	}
	if n > 0 {
		return
	}
	if err := st.Delete(ctx, ref); err != nil {
		slog.Warn("deleting unused photo", "ref", ref, "error", err)
	}
}
