package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	assetsPkg "github.com/milk9111/mapeditor/assets"
)

// AssetInfo holds information about a tileset image. Builtin assets come
// from the embedded assets package rather than the data directory.
type AssetInfo struct {
	Name    string
	Path    string
	Builtin bool
}

var tilesetExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}

// ListImageAssets scans dir for tileset images. The embedded default tileset
// is always listed first. A missing dir is not an error.
func ListImageAssets(dir string) ([]AssetInfo, error) {
	assets := []AssetInfo{{Name: "builtin: " + assetsPkg.DefaultTilesetName, Path: assetsPkg.DefaultTilesetName, Builtin: true}}
	var found []AssetInfo
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if tilesetExts[strings.ToLower(filepath.Ext(d.Name()))] {
			rel, relErr := filepath.Rel(dir, path)
			if relErr != nil {
				rel = d.Name()
			}
			found = append(found, AssetInfo{Name: filepath.ToSlash(rel), Path: path})
		}
		return nil
	})
	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return append(assets, found...), err
}
