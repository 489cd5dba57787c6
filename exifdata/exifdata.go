// Package exifdata extracts photographic metadata from image files carrying
// EXIF-style tagged fields (JPEG, TIFF).
//
// Extraction is best-effort per field: once the container parses, every field
// of the returned record is computed independently, and a missing or malformed
// tag only leaves its own field unset.
package exifdata

import (
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"

	"photogeoview/model"
	"photogeoview/photoerr"
)

func init() {
	// Vendor maker-note parsers improve tag coverage for some cameras.
	exif.RegisterParsers(mknote.All...)
}

// Ordered tag fallback chains, first hit wins.
var (
	dateTimeTags = []exif.FieldName{exif.DateTimeOriginal, exif.DateTime}
	widthTags    = []exif.FieldName{exif.PixelXDimension, exif.ImageWidth}
	heightTags   = []exif.FieldName{exif.PixelYDimension, exif.ImageLength}
)

// Extract reads the EXIF container of the file at path and returns the
// normalized metadata record.
//
// It fails only on structural problems: a missing file, an unreadable file,
// or a byte stream that does not parse as an EXIF container. Absence of any
// individual tag is never an error.
func Extract(path string) (*model.ExifData, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, photoerr.NotFound(path)
		}
		return nil, photoerr.Read(path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		// The stat above races with the open; a file deleted in between
		// still surfaces as not-found here.
		if os.IsNotExist(err) {
			return nil, photoerr.NotFound(path)
		}
		return nil, photoerr.Read(path, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, photoerr.ExifParse(path, err)
	}

	return &model.ExifData{
		GPS:          gpsFix(x),
		DateTime:     dateTime(x),
		Camera:       camera(x),
		Width:        uintField(x, widthTags...),
		Height:       uintField(x, heightTags...),
		ISO:          uintField(x, exif.ISOSpeedRatings),
		Aperture:     rationalField(x, exif.FNumber),
		ShutterSpeed: rationalField(x, exif.ExposureTime),
		FocalLength:  rationalField(x, exif.FocalLength),
	}, nil
}

// gpsFix returns the GPS position, or nil unless both axes decode fully.
func gpsFix(x *exif.Exif) *model.Gps {
	lat := coordinate(x, exif.GPSLatitude, exif.GPSLatitudeRef)
	lng := coordinate(x, exif.GPSLongitude, exif.GPSLongitudeRef)
	if lat == nil || lng == nil {
		return nil
	}
	return &model.Gps{Lat: *lat, Lng: *lng}
}

// coordinate decodes one GPS axis: a degrees/minutes/seconds rational triple
// plus its hemisphere reference. Both tags are required; either one missing
// or malformed yields no value for the axis.
func coordinate(x *exif.Exif, coordTag, refTag exif.FieldName) *float64 {
	coord, err := x.Get(coordTag)
	if err != nil {
		return nil
	}
	ref, err := x.Get(refTag)
	if err != nil {
		return nil
	}
	if coord.Count < 3 {
		return nil
	}

	var dms [3]float64
	for i := range dms {
		num, den, err := coord.Rat2(i)
		if err != nil || den == 0 {
			return nil
		}
		dms[i] = float64(num) / float64(den)
	}

	hemisphere, err := ref.StringVal()
	if err != nil {
		return nil
	}

	decimal := dms[0] + dms[1]/60 + dms[2]/3600
	switch strings.TrimSpace(hemisphere) {
	case "S", "W":
		decimal = -decimal
	}
	return &decimal
}

// dateTime returns the capture timestamp in extended ISO-8601 form,
// preferring the original-capture tag over the generic modification tag.
func dateTime(x *exif.Exif) *string {
	for _, name := range dateTimeTags {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		raw, err := tag.StringVal()
		if err != nil {
			continue
		}
		normalized := normalizeDateTime(raw)
		return &normalized
	}
	return nil
}

// normalizeDateTime converts the EXIF form "YYYY:MM:DD HH:MM:SS" to
// "YYYY-MM-DDTHH:MM:SS": the separating space becomes a T and the date
// portion's colons become hyphens, while the time portion keeps its colons.
// Input that does not split into exactly two T-separated parts comes back
// verbatim.
func normalizeDateTime(raw string) string {
	parts := strings.Split(strings.ReplaceAll(raw, " ", "T"), "T")
	if len(parts) != 2 {
		return raw
	}
	return strings.ReplaceAll(parts[0], ":", "-") + "T" + parts[1]
}

// camera returns the capturing equipment, or nil unless both make and model
// tags were readable.
func camera(x *exif.Exif) *model.CameraInfo {
	makeVal := textField(x, exif.Make)
	modelVal := textField(x, exif.Model)
	if makeVal == nil || modelVal == nil {
		return nil
	}
	return &model.CameraInfo{Make: *makeVal, Model: *modelVal}
}

func textField(x *exif.Exif, name exif.FieldName) *string {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	val, err := tag.StringVal()
	if err != nil {
		return nil
	}
	trimmed := strings.TrimSpace(val)
	return &trimmed
}

// uintField walks the candidate tags in order and returns the first one that
// decodes as an unsigned integer.
func uintField(x *exif.Exif, names ...exif.FieldName) *uint32 {
	for _, name := range names {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		val, err := tag.Int(0)
		if err != nil || val < 0 {
			continue
		}
		u := uint32(val)
		return &u
	}
	return nil
}

// rationalField converts the first numerator/denominator pair of a rational
// tag to a float64.
func rationalField(x *exif.Exif, name exif.FieldName) *float64 {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return nil
	}
	val := float64(num) / float64(den)
	return &val
}
