// Package service implements the application operations on top of the
// sqlite store, the session guard, and the search index.
package service

import (
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
	"github.com/inkwell-app/inkwell-server/internal/store"
)

// notFound converts a store-level not-found into a named domain error,
// passing every other error through unchanged.
func notFound(err error, what string) error {
	if apperrors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound(what + " not found")
	}
	return err
}
