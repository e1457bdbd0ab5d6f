// Package storage defines the notes directory abstraction.
package storage

import "github.com/starford/janitor/internal/models"

// Provider is the interface for note file operations.
type Provider interface {
	// List returns metadata for every note file directly inside the notes directory.
	List() ([]models.NoteMetadata, error)
	// Read returns the raw bytes of the note at path (relative to the notes directory).
	Read(path string) ([]byte, error)
	// Write atomically replaces the note at path (relative to the notes directory).
	Write(path string, content []byte) error
	// IsNote reports whether a file name denotes a note.
	IsNote(name string) bool
	// Root returns the absolute notes directory.
	Root() string
}
