// Package archive moves loose asset files between a directory and a zip
// stream in both directions.
package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/flate"
	"golang.org/x/sync/errgroup"
)

// Pack writes every regular file under dir into a zip written to w. Entry
// names are relative to dir. A missing dir produces a valid empty archive.
// Returns the number of entries written.
func Pack(ctx context.Context, dir string, w io.Writer) (int, error) {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	files, err := listFiles(dir)
	if err != nil {
		_ = zw.Close()
		return 0, err
	}

	written := 0
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			_ = zw.Close()
			return written, err
		}
		if err := addFile(zw, filepath.Join(dir, filepath.FromSlash(rel)), rel); err != nil {
			_ = zw.Close()
			return written, fmt.Errorf("add %s: %w", rel, err)
		}
		written++
	}

	if err := zw.Close(); err != nil {
		return written, fmt.Errorf("finish zip: %w", err)
	}
	return written, nil
}

// listFiles returns slash-separated paths of regular files under dir, sorted.
func listFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func addFile(zw *zip.Writer, src, name string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

// UnpackOptions bounds an extraction.
type UnpackOptions struct {
	// Workers is the number of entries extracted concurrently.
	Workers int
	// MaxEntryBytes caps the uncompressed size of one entry; 0 means no cap.
	MaxEntryBytes int64
}

// Unpack extracts the zip in r into dest, creating dest if needed. Existing
// files with the same name are replaced, as are earlier entries of the same
// name. On error some entries may already be on disk. Returns the number of
// files written.
func Unpack(ctx context.Context, r io.ReaderAt, size int64, dest string, opts UnpackOptions) (int, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return 0, fmt.Errorf("read zip: %w", err)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return 0, fmt.Errorf("create %s: %w", dest, err)
	}

	// Entries that map to the same file are written once, from the last one
	// in the archive, so concurrent workers never race on a target.
	var entries []*zip.File
	seen := make(map[string]int)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		target, err := entryPath(dest, f.Name)
		if err != nil {
			return 0, err
		}
		if i, ok := seen[target]; ok {
			entries[i] = f
			continue
		}
		seen[target] = len(entries)
		entries = append(entries, f)
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, f := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return extractEntry(f, dest, opts.MaxEntryBytes)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// entryPath maps a zip entry name into dest and rejects names that would
// land outside it.
func entryPath(dest, name string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(name, `\`, "/"))
	if clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("illegal entry name %q", name)
	}
	return filepath.Join(dest, filepath.FromSlash(clean)), nil
}

func extractEntry(f *zip.File, dest string, maxBytes int64) error {
	target, err := entryPath(dest, f.Name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(target), ".extract-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	src := io.Reader(rc)
	if maxBytes > 0 {
		src = io.LimitReader(rc, maxBytes+1)
	}
	n, err := io.Copy(tmp, src)
	if err != nil {
		_ = tmp.Close()
		return fmt.Errorf("extract entry %s: %w", f.Name, err)
	}
	if maxBytes > 0 && n > maxBytes {
		_ = tmp.Close()
		return fmt.Errorf("entry %s exceeds %d bytes", f.Name, maxBytes)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
