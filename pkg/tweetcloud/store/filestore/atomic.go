package filestore

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
)

// writeAtomic writes data to a temp file in dest's directory, syncs it and
// renames it into place. On any failure the temp file is removed and dest
// is untouched.
func writeAtomic(ctx context.Context, dest string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	// CreateTemp always uses 0600.
	if err := tmp.Chmod(perm); err != nil {
		return fail(err)
	}

	bw := bufio.NewWriter(tmp)
	if _, err := io.Copy(bw, bytes.NewReader(data)); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	// Last chance to abandon before the artifact becomes visible.
	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	syncDir(dir)
	return nil
}

// syncDir flushes the directory entry; best effort.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
