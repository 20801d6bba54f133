package catalog

import (
	"context"
	"io"
	"os"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	"github.com/luminaspa/booking-cart/internal/domain/promotion"
)

var _ Source = (*FileSource)(nil)

// FileSource reads the catalog from a gzipped JSON snapshot, as written by
// the catalog-snapshot tool. Used for offline deployments and fixtures.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for the given snapshot path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads and decodes the snapshot file.
func (s *FileSource) Fetch(_ context.Context) ([]promotion.Bundle, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "open snapshot %s", s.path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read snapshot %s", s.path)
	}
	defer func() { _ = gz.Close() }()

	data, err := io.ReadAll(io.LimitReader(gz, maxResponseSize))
	if err != nil {
		return nil, errors.Wrapf(err, "read snapshot %s", s.path)
	}

	return DecodeBundles(data)
}

// WriteSnapshot writes bundles as a gzipped JSON snapshot that FileSource
// can read back.
func WriteSnapshot(w io.Writer, bundles []promotion.Bundle) error {
	gz := pgzip.NewWriter(w)
	if _, err := gz.Write(EncodeBundles(bundles)); err != nil {
		return errors.Wrap(err, "write snapshot")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, "flush snapshot")
	}
	return nil
}
