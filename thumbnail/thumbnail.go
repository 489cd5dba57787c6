// Package thumbnail derives bounded, inline-encoded preview images.
package thumbnail

import (
	"bytes"
	"encoding/base64"
	"image/jpeg"
	"os"

	"github.com/disintegration/imaging"

	"photogeoview/photoerr"

	// Register the webp decoder; imaging brings jpeg, png, gif, tiff and bmp.
	_ "golang.org/x/image/webp"
)

// DefaultMaxDimension bounds the longer thumbnail side when the caller does
// not pick a size.
const DefaultMaxDimension = 200

const jpegQuality = 80

// Derive decodes the image at path, resamples it so its longer side fits
// maxDimension while preserving aspect ratio, re-encodes it as JPEG in memory
// and returns it as a data URI ("data:image/jpeg;base64,...").
//
// The input format is sniffed from content, not from the file extension.
// maxDimension values <= 0 fall back to DefaultMaxDimension.
func Derive(path string, maxDimension int) (string, error) {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", photoerr.NotFound(path)
		}
		return "", photoerr.Read(path, err)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		// The file can vanish between the stat and the open.
		if os.IsNotExist(err) {
			return "", photoerr.NotFound(path)
		}
		return "", photoerr.Decode(path, err)
	}

	thumb := imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", photoerr.Encode(path, err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
