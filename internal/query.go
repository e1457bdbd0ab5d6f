package internal

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/starford/janitor/internal/apperr"
	"github.com/starford/janitor/internal/index"
)

// QueryBacklinks prints the backlinks of title recorded in the snapshot at
// indexPath.
func QueryBacklinks(ctx context.Context, indexPath, title string, w io.Writer) error {
	db, err := index.Open(indexPath)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()
	return writeBacklinks(ctx, db, title, w)
}

// writeBacklinks prints title with its rank, then one line per linking note,
// highest ranked first, each followed by its indented excerpts. Titles with
// no note of their own print "-" as rank.
func writeBacklinks(ctx context.Context, store index.Store, title string, w io.Writer) error {
	rank := "-"
	score, err := store.Rank(ctx, title)
	switch {
	case err == nil:
		rank = fmt.Sprintf("%.6f", score)
	case !errors.Is(err, apperr.ErrNotFound):
		return err
	}

	backlinks, err := store.Backlinks(ctx, title)
	if err != nil {
		return err
	}
	if rank == "-" && len(backlinks) == 0 {
		return fmt.Errorf("query %q: %w", title, apperr.ErrNotFound)
	}

	fmt.Fprintf(w, "%s\t%s\n", title, rank)
	for _, bl := range backlinks {
		fmt.Fprintf(w, "* %s\t%.6f\n", bl.Source, bl.Rank)
		for _, e := range bl.Excerpts {
			fmt.Fprintf(w, "\t%s\n", e)
		}
	}
	return nil
}
