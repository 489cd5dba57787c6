package photo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"photogeoview/exifdata"
	"photogeoview/model"
	"photogeoview/photoerr"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
}

// IsImageFile reports whether name has a supported image extension.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// ReadDirectory lists one directory for the browsing view: subdirectories and
// supported image files only, directories first, then case-insensitive name
// order. Image entries carry a best-effort EXIF capture time.
func (s *Service) ReadDirectory(path string) (*model.DirectoryContent, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, photoerr.NotFound(path)
		}
		return nil, photoerr.Read(path, err)
	}
	if !info.IsDir() {
		return nil, photoerr.Read(path, fmt.Errorf("not a directory"))
	}

	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, photoerr.Read(path, err)
	}

	entries := make([]model.DirectoryEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entryPath := filepath.Join(path, de.Name())

		meta, err := de.Info()
		if err != nil {
			// Entry vanished between the listing and the stat.
			s.Log.Debug("skipping unreadable entry", zap.String("path", entryPath), zap.Error(err))
			continue
		}

		entry := model.DirectoryEntry{
			Name:         de.Name(),
			Path:         entryPath,
			IsDirectory:  de.IsDir(),
			ModifiedTime: meta.ModTime().UTC().Format(time.RFC3339),
		}

		if !de.IsDir() {
			if !IsImageFile(de.Name()) {
				continue
			}
			entry.FileSize = uint64(meta.Size())
			if exif, err := exifdata.Extract(entryPath); err == nil {
				entry.CapturedTime = exif.DateTime
			}
		}

		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDirectory != entries[j].IsDirectory {
			return entries[i].IsDirectory
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	content := &model.DirectoryContent{
		CurrentPath: path,
		Entries:     entries,
	}
	if parent := filepath.Dir(path); parent != path {
		content.ParentPath = &parent
	}

	s.Log.Info("directory read",
		zap.String("path", path),
		zap.Int("entries", len(entries)),
	)
	return content, nil
}

// ScanFolder collects the paths of supported image files under root,
// descending into subdirectories when recursive is set.
func (s *Service) ScanFolder(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, photoerr.NotFound(root)
		}
		return nil, photoerr.Read(root, err)
	}
	if !info.IsDir() {
		return nil, photoerr.Read(root, fmt.Errorf("not a directory"))
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.Log.Debug("skipping unreadable entry", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			if !recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if IsImageFile(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, photoerr.Read(root, err)
	}

	s.Log.Info("folder scan complete",
		zap.String("root", root),
		zap.Bool("recursive", recursive),
		zap.Int("images", len(paths)),
	)
	return paths, nil
}
