package storage

import (
	"errors"
	"log"
)

// Compensate runs insert for a file that has already been written. When insert
// fails the file is removed again so no orphaned upload survives the request.
// The insert error is returned, joined with the cleanup error if cleanup failed too.
func Compensate(remover Remover, stored *StoredFile, insert func() error) error {
	err := insert()
	if err == nil || stored == nil {
		return err
	}

	if rmErr := remover.Remove(stored.URL); rmErr != nil && !errors.Is(rmErr, ErrFileMissing) {
		log.Printf("[ERROR] failed to roll back upload %s: %v", stored.URL, rmErr)
		return errors.Join(err, rmErr)
	}
	return err
}
