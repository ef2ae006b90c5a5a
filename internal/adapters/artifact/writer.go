// Package artifact writes the ranked board to its output file.
package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/draftrank/internal/domain/types"
)

// ErrWrite wraps every failure to produce the artifact.
var ErrWrite = errors.New("write rankings artifact")

const filePerm = 0o644

// Writer writes the board as an indented JSON array. Each write goes to a
// temporary file in the same directory and is renamed over the target, so
// readers see either the old or the new board.
type Writer struct {
	path string
}

// NewWriter returns a writer targeting path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the target file.
func (w *Writer) Path() string { return w.path }

// Write replaces the artifact with board.
func (w *Writer) Write(ctx context.Context, board []types.Entry) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if board == nil {
		board = []types.Entry{}
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err = enc.Encode(board); err != nil {
		return fmt.Errorf("%w: encode: %w", ErrWrite, err)
	}
	if err = tmp.Chmod(filePerm); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err = os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
