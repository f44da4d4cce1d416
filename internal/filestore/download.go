package filestore

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/intellisql/intellisql/internal/errs"
)

// Download fetches the object at bucket/key into a temp file under dir
// (os.TempDir when dir is empty) and returns the local path. The temp file
// is removed on any failure path; on success the caller owns it.
func Download(ctx context.Context, store Store, bucket, key, dir string) (string, error) {
	obj, err := store.GetObject(ctx, bucket, key)
	if err != nil {
		return "", err
	}
	defer obj.Close()

	if dir == "" {
		dir = os.TempDir()
	}

	tmp, err := os.CreateTemp(dir, "attached-*"+filepath.Ext(key))
	if err != nil {
		return "", errs.Wrap(errs.ErrKindUnknown, "failed to create temp file", err)
	}

	if _, err := io.Copy(tmp, obj); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", errs.Wrap(errs.ErrKindUnknown, "failed to download object", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", errs.Wrap(errs.ErrKindUnknown, "failed to flush temp file", err)
	}

	return tmp.Name(), nil
}
