// Package file provides a file system backed key-value store.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dukex/timely/pkg/persistence"
)

// Store keeps one JSON file per key under a root directory.
type Store struct {
	root string
}

// NewStore creates a store rooted at root. A leading "file://" is stripped.
func NewStore(root string) *Store {
	return &Store{root: strings.Replace(root, "file://", "", 1)}
}

// Get reads the value stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	filePath, err := s.path(key)
	if err != nil {
		return nil, err
	}

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrKeyNotFound
		}

		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	return body, nil
}

// Put writes value under key, replacing any previous value.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	filePath, err := s.path(key)
	if err != nil {
		return err
	}

	err = os.MkdirAll(s.root, 0750)
	if err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.root, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	_, err = tmp.Write(value)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	err = os.Rename(tmp.Name(), filePath)
	if err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}

// Delete removes key. Missing keys are ignored.
func (s *Store) Delete(_ context.Context, key string) error {
	filePath, err := s.path(key)
	if err != nil {
		return err
	}

	err = os.Remove(filePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}

// HealthCheck verifies the root directory exists, creating it if needed.
func (s *Store) HealthCheck(_ context.Context) error {
	err := os.MkdirAll(s.root, 0750)
	if err != nil {
		return fmt.Errorf("store directory unavailable: %w", err)
	}

	return nil
}

// Close performs any necessary cleanup. For the file store there is nothing to clean up.
func (s *Store) Close(_ context.Context) error {
	return nil
}

func (s *Store) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", errors.Join(persistence.ErrInvalidKey, fmt.Errorf("key %q", key))
	}

	return filepath.Join(s.root, key+".json"), nil
}
