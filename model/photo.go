package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gps is a GPS fix in signed decimal degrees.
type Gps struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// CameraInfo identifies the equipment that captured the image. Present only
// when both make and model were readable.
type CameraInfo struct {
	Make  string `json:"make" bson:"make"`
	Model string `json:"model" bson:"model"`
}

// ExifData is the metadata extracted from one image file. Every field is
// independently optional; a nil field means the tag was absent or malformed.
type ExifData struct {
	GPS          *Gps        `json:"gps,omitempty" bson:"gps,omitempty"`
	DateTime     *string     `json:"datetime,omitempty" bson:"datetime,omitempty"`
	Camera       *CameraInfo `json:"camera,omitempty" bson:"camera,omitempty"`
	Width        *uint32     `json:"width,omitempty" bson:"width,omitempty"`
	Height       *uint32     `json:"height,omitempty" bson:"height,omitempty"`
	ISO          *uint32     `json:"iso,omitempty" bson:"iso,omitempty"`
	Aperture     *float64    `json:"aperture,omitempty" bson:"aperture,omitempty"`
	ShutterSpeed *float64    `json:"shutter_speed,omitempty" bson:"shutter_speed,omitempty"`
	FocalLength  *float64    `json:"focal_length,omitempty" bson:"focal_length,omitempty"`
}

// PhotoData is the assembled record for one file: filesystem attributes plus
// best-effort EXIF metadata and an inline thumbnail.
type PhotoData struct {
	Path         string    `json:"path"`
	Filename     string    `json:"filename"`
	FileSize     uint64    `json:"file_size"`
	ModifiedTime string    `json:"modified_time"`
	Exif         *ExifData `json:"exif,omitempty"`
	Thumbnail    *string   `json:"thumbnail,omitempty"`
}

// HasGPS reports whether the record carries a GPS fix.
func (p *PhotoData) HasGPS() bool {
	return p.Exif != nil && p.Exif.GPS != nil
}

// DirectoryEntry is one folder or image file inside a browsed directory.
type DirectoryEntry struct {
	Name         string  `json:"name"`
	Path         string  `json:"path"`
	IsDirectory  bool    `json:"isDirectory"`
	ModifiedTime string  `json:"modifiedTime"`
	CapturedTime *string `json:"capturedTime,omitempty"`
	FileSize     uint64  `json:"fileSize"`
}

// DirectoryContent is the browsable view of one directory.
type DirectoryContent struct {
	CurrentPath string           `json:"currentPath"`
	ParentPath  *string          `json:"parentPath,omitempty"`
	Entries     []DirectoryEntry `json:"entries"`
}

// PhotoDB is the catalog representation of an assembled record, stored with a
// GeoJSON point so the map view can run $near queries against it.
type PhotoDB struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	LonLat       *GeoPoint          `bson:"lonlat,omitempty"`
	CapturedAt   string             `bson:"captured_at,omitempty"`
	FilePath     string             `bson:"file_path"`
	Filename     string             `bson:"filename"`
	FileSize     uint64             `bson:"file_size"`
	ModifiedTime string             `bson:"modified_time,omitempty"`
	Exif         *ExifData          `bson:"exif,omitempty"`
	Thumbnail    string             `bson:"thumbnail,omitempty"`
}

// GeoPoint is a GeoJSON point, coordinates ordered [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type,omitempty"`
	Coordinates []float64 `bson:"coordinates,omitempty"`
}

// NewPhotoDB maps an assembled record to its catalog form.
func NewPhotoDB(p *PhotoData) PhotoDB {
	rec := PhotoDB{
		FilePath:     p.Path,
		Filename:     p.Filename,
		FileSize:     p.FileSize,
		ModifiedTime: p.ModifiedTime,
		Exif:         p.Exif,
	}
	if p.Thumbnail != nil {
		rec.Thumbnail = *p.Thumbnail
	}
	if p.Exif != nil {
		if p.Exif.GPS != nil {
			rec.LonLat = &GeoPoint{
				Type:        "Point",
				Coordinates: []float64{p.Exif.GPS.Lng, p.Exif.GPS.Lat},
			}
		}
		if p.Exif.DateTime != nil {
			rec.CapturedAt = *p.Exif.DateTime
		}
	}
	return rec
}
