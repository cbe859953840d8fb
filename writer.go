package preplan

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
)

// Writer persists a plan payload.
type Writer interface {
	Write(ctx context.Context, path string, payload *PlanPayload) error
}

// FileWriter writes plans as canonical JSON files. The file is written to a
// temporary sibling and renamed into place, so readers never observe a
// partially written plan.
type FileWriter struct {
	dirPerm  os.FileMode
	filePerm os.FileMode
}

// FileWriterOption configures FileWriter.
type FileWriterOption func(*FileWriter)

// WithDirPerm sets the permission used for directories created on the way to
// the plan file. Default is 0755.
func WithDirPerm(perm os.FileMode) FileWriterOption {
	return func(w *FileWriter) {
		w.dirPerm = perm
	}
}

// WithFilePerm sets the permission of the plan file. Default is 0644.
func WithFilePerm(perm os.FileMode) FileWriterOption {
	return func(w *FileWriter) {
		w.filePerm = perm
	}
}

// NewFileWriter creates a FileWriter.
func NewFileWriter(opts ...FileWriterOption) *FileWriter {
	w := &FileWriter{
		dirPerm:  0755,
		filePerm: 0644,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write validates and encodes payload, creates missing parent directories of
// path and replaces path with the encoded plan.
func (w *FileWriter) Write(ctx context.Context, path string, payload *PlanPayload) error {
	data, err := EncodePayload(payload)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, w.dirPerm); err != nil {
		return goerr.Wrap(err, "failed to create plan directory", goerr.Tag(ErrTagIO), goerr.V("dir", dir))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary plan file", goerr.Tag(ErrTagIO), goerr.V("dir", dir))
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return goerr.Wrap(err, "failed to write plan file", goerr.Tag(ErrTagIO), goerr.V("path", tmpPath))
	}
	if err := tmp.Sync(); err != nil {
		return goerr.Wrap(err, "failed to sync plan file", goerr.Tag(ErrTagIO), goerr.V("path", tmpPath))
	}
	if err := tmp.Chmod(w.filePerm); err != nil {
		return goerr.Wrap(err, "failed to set plan file permission", goerr.Tag(ErrTagIO), goerr.V("path", tmpPath))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close plan file", goerr.Tag(ErrTagIO), goerr.V("path", tmpPath))
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return goerr.Wrap(err, "failed to move plan file into place", goerr.Tag(ErrTagIO), goerr.V("path", path))
	}
	committed = true

	LoggerFromContext(ctx).Debug("plan written",
		slog.String("path", path),
		slog.Int("bytes", len(data)),
	)
	return nil
}
