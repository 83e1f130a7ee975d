package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	migrationFile = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)
	unsafeChars   = regexp.MustCompile(`[^a-z0-9]+`)
)

// File is one migration version with its up and down scripts
type File struct {
	Version uint
	Name    string
}

// String returns the file base name without direction and extension
func (f File) String() string {
	return fmt.Sprintf("%06d_%s", f.Version, f.Name)
}

// List returns the migrations found in src ordered by version
func List(src fs.FS) ([]File, error) {
	entries, err := fs.ReadDir(src, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	seen := make(map[uint]File)
	for _, entry := range entries {
		match := migrationFile.FindStringSubmatch(entry.Name())
		if entry.IsDir() || match == nil {
			continue
		}
		version, err := strconv.ParseUint(match[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad migration version in %s: %w", entry.Name(), err)
		}
		seen[uint(version)] = File{Version: uint(version), Name: match[2]}
	}

	files := make([]File, 0, len(seen))
	for _, f := range seen {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

// Create writes an empty up/down pair numbered after the newest migration in dir
func Create(dir, name string) (File, error) {
	slug := strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if slug == "" {
		return File{}, fmt.Errorf("migration name %q has no usable characters", name)
	}

	existing, err := List(os.DirFS(dir))
	if err != nil {
		return File{}, err
	}
	next := File{Version: 1, Name: slug}
	if len(existing) > 0 {
		next.Version = existing[len(existing)-1].Version + 1
	}

	for _, direction := range []string{"up", "down"} {
		path := filepath.Join(dir, next.String()+"."+direction+".sql")
		header := fmt.Sprintf("-- %s (%s)\n", slug, direction)
		if err := os.WriteFile(path, []byte(header), 0o644); err != nil {
			return File{}, fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return next, nil
}
