package content

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// DirSource reads content items from the top level of a directory. Hidden
// files and sub-directories are ignored; the locator is the file name.
type DirSource struct {
	fsys fs.FS
	name string
}

// NewDirSource reads items from the directory at path.
func NewDirSource(path string) *DirSource {
	return &DirSource{fsys: os.DirFS(path), name: path}
}

// NewFSSource reads items from the root of fsys.
func NewFSSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys, name: "."}
}

func (d *DirSource) String() string {
	return fmt.Sprintf("dir(%s)", d.name)
}

// List returns every item with its full text.
func (d *DirSource) List(ctx context.Context) ([]Item, error) {
	entries, err := fs.ReadDir(d.fsys, ".")
	if err != nil {
		return nil, &IOError{Op: "scan", Locator: d.name, Err: err}
	}
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !e.Type().IsRegular() {
			continue
		}
		text, err := d.Read(ctx, e.Name())
		if err != nil {
			return nil, err
		}
		items = append(items, Item{Locator: e.Name(), Text: text})
	}
	return items, nil
}

// Read returns the full text of the named file.
func (d *DirSource) Read(ctx context.Context, locator string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !fs.ValidPath(locator) || strings.Contains(locator, "/") {
		return "", &IOError{Op: "read", Locator: locator, Err: fs.ErrInvalid}
	}
	b, err := fs.ReadFile(d.fsys, locator)
	if err != nil {
		return "", &IOError{Op: "read", Locator: locator, Err: err}
	}
	return string(b), nil
}
