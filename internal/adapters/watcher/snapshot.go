package watcher

import (
	"encoding/binary"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// snapshot hashes the names and contents of every file below dir that is not
// skipped or ignored. Equal snapshots mean nothing relevant changed.
func snapshot(dir string, ignore matcher) (uint64, error) {
	digest := xxhash.New()
	var size [8]byte

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Files may disappear while walking; they are picked up by the next snapshot.
			return nil //nolint:nilerr // skip unreadable entries
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			if path != dir && (skipDirectories[d.Name()] || ignore.ignored(rel)) {
				return fs.SkipDir
			}
			return nil
		}
		if ignore.ignored(rel) || !d.Type().IsRegular() {
			return nil
		}

		_, _ = digest.WriteString(filepath.ToSlash(rel))
		_, _ = digest.Write([]byte{0})
		n, err := hashFile(digest, path)
		if err != nil {
			return nil //nolint:nilerr // see above
		}
		binary.LittleEndian.PutUint64(size[:], uint64(n)) //nolint:gosec // sizes are non-negative
		_, _ = digest.Write(size[:])
		return nil
	})
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to snapshot directory"), "directory", dir)
	}
	return digest.Sum64(), nil
}

func hashFile(w io.Writer, path string) (int64, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from walking the watched directory
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()
	return io.Copy(w, f)
}
