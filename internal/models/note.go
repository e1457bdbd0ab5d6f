// Package models defines the domain types shared across the janitor.
package models

import "time"

// Note is a Markdown file read from the notes directory.
type Note struct {
	Path     string `json:"path"`
	Title    string `json:"title"`
	Content  []byte `json:"-"`
	Checksum string `json:"checksum"`
}

// NoteMetadata is a lightweight representation returned by list operations.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
