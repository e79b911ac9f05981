package blob

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ProductImageDir is the public directory under which product images live.
// Stored image paths are root-relative, e.g. "/images/product/<name>".
const ProductImageDir = "/images/product"

// Store is durable storage for uploaded image files, addressed by
// root-relative public paths. Implementations do not track ownership; the
// caller is responsible for deleting a file it is replacing.
type Store interface {
	// Write stores the content under the given path, creating any missing
	// parent directories.
	Write(ctx context.Context, filePath string, content io.Reader) error

	// DeleteIfExists removes the file at the given path. An empty path and
	// a missing file are both no-ops, not errors.
	DeleteIfExists(ctx context.Context, filePath string) error

	// Exists reports whether a file is stored under the given path.
	Exists(ctx context.Context, filePath string) (bool, error)
}

// NewImageName generates a globally unique filename for an uploaded image,
// preserving the original upload's extension.
func NewImageName(original string) string {
	ext := strings.ToLower(path.Ext(original))
	return uuid.New().String() + ext
}

// ProductImagePath returns the root-relative public path for a generated
// image filename.
func ProductImagePath(name string) string {
	return path.Join(ProductImageDir, name)
}
