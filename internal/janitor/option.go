package janitor

import (
	"context"

	"github.com/starford/janitor/internal/index"
	"github.com/starford/janitor/internal/rank"
)

// Duplicate title policies.
const (
	DuplicateWarn  = "warn"
	DuplicateError = "error"
)

// Recorder persists the state of a finished run.
type Recorder interface {
	Replace(ctx context.Context, s index.Snapshot) error
}

// Option configures a Janitor.
type Option func(*Janitor)

// WithRankParams sets the PageRank parameters.
func WithRankParams(p rank.Params) Option {
	return func(j *Janitor) {
		j.params = p
	}
}

// WithWorkers bounds how many notes are read or written concurrently.
func WithWorkers(n int) Option {
	return func(j *Janitor) {
		if n > 0 {
			j.workers = n
		}
	}
}

// WithDryRun computes changes without writing any note.
func WithDryRun(dryRun bool) Option {
	return func(j *Janitor) {
		j.dryRun = dryRun
	}
}

// WithDuplicateTitles sets the policy for notes sharing a title.
func WithDuplicateTitles(policy string) Option {
	return func(j *Janitor) {
		j.strictTitles = policy == DuplicateError
	}
}

// WithRecorder stores a snapshot of every successful run.
func WithRecorder(r Recorder) Option {
	return func(j *Janitor) {
		j.recorder = r
	}
}
