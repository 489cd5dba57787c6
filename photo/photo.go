// Package photo assembles per-file records for the browsing and map views:
// filesystem attributes merged with best-effort EXIF metadata and an inline
// thumbnail, plus directory listing and folder scanning.
package photo

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"photogeoview/exifdata"
	"photogeoview/model"
	"photogeoview/photoerr"
	"photogeoview/thumbnail"
)

// Service builds photo records. Safe for concurrent use; calls share no state.
type Service struct {
	Log *zap.Logger

	// MaxThumbnailDimension bounds the longer thumbnail side; <= 0 means
	// thumbnail.DefaultMaxDimension.
	MaxThumbnailDimension int
}

// GetPhotoData stats the file at path and attaches EXIF metadata and a
// thumbnail. Metadata extraction and thumbnail derivation are independent:
// failure of either leaves its field unset and never fails the record.
func (s *Service) GetPhotoData(path string) (*model.PhotoData, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, photoerr.NotFound(path)
		}
		return nil, photoerr.Read(path, err)
	}

	data := &model.PhotoData{
		Path:         path,
		Filename:     filepath.Base(path),
		FileSize:     uint64(info.Size()),
		ModifiedTime: info.ModTime().UTC().Format(time.RFC3339),
	}

	if exif, err := exifdata.Extract(path); err == nil {
		data.Exif = exif
	} else {
		s.Log.Debug("no exif metadata", zap.String("path", path), zap.Error(err))
	}

	if thumb, err := thumbnail.Derive(path, s.MaxThumbnailDimension); err == nil {
		data.Thumbnail = &thumb
	} else {
		s.Log.Warn("thumbnail derivation failed", zap.String("path", path), zap.Error(err))
	}

	return data, nil
}
