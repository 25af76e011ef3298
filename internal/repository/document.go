package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// writeDocument serializes doc as indented JSON and replaces the file at
// path with the whole document. The write goes through a temp file in the
// same directory followed by a rename, so readers never observe a partially
// written document.
func writeDocument(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp document: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write document %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp document: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace document %s: %w", filepath.Base(path), err)
	}
	return nil
}

// readDocument deserializes the file at path into doc. An absent file is
// reported as ErrNotFound, not as a fatal error.
func readDocument(path string, doc any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read document %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", filepath.Base(path), err)
	}
	return nil
}

// deleteDocument removes the file at path; an absent file is a no-op.
func deleteDocument(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document %s: %w", filepath.Base(path), err)
	}
	return nil
}

// documentExists reports whether a file is present at path.
func documentExists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat document %s: %w", filepath.Base(path), err)
	}
	return true, nil
}
