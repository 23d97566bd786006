package metadata

import (
	"bytes"
	"errors"
	"time"

	"github.com/bep/imagemeta"
	"github.com/rwcarlsen/goexif/exif"
)

const (
	tagDateTimeOriginal = "DateTimeOriginal"
	tagSoftware         = "Software"
	tagMake             = "Make"
	tagModel            = "Model"
)

// wantedTags are the EXIF tags read through imagemeta
var wantedTags = map[string]bool{
	tagDateTimeOriginal: true,
	tagSoftware:         true,
	tagMake:             true,
	tagModel:            true,
}

// CameraTags holds the provenance fields used to recognise already-processed photos
type CameraTags struct {
	Software string
	Make     string
	Model    string
}

// ReadCameraTags returns the Software/Make/Model EXIF fields of data.
// Missing fields, or unreadable metadata, yield empty strings.
func ReadCameraTags(data []byte) CameraTags {
	if x, err := decodeEXIF(data); err == nil {
		return CameraTags{
			Software: exifString(x, exif.Software),
			Make:     exifString(x, exif.Make),
			Model:    exifString(x, exif.Model),
		}
	}

	tags, err := decodeContainerTags(data)
	if err != nil {
		return CameraTags{}
	}
	return CameraTags{
		Software: tags[tagSoftware],
		Make:     tags[tagMake],
		Model:    tags[tagModel],
	}
}

// decodeEXIF parses data with goexif. Non-critical parse errors still leave
// usable tags, so only critical ones are reported. The layout is checked
// first: goexif trusts tag counts when allocating.
func decodeEXIF(data []byte) (*exif.Exif, error) {
	if len(data) == 0 {
		return nil, errors.New("empty buffer")
	}
	block, ok := locateTIFF(data)
	if !ok {
		return nil, errors.New("no EXIF block")
	}
	if err := checkTIFFLayout(block); err != nil {
		return nil, err
	}
	x, err := exif.Decode(bytes.NewReader(data))
	if x == nil {
		if err == nil {
			err = errors.New("no EXIF data")
		}
		return nil, err
	}
	if err != nil && exif.IsCriticalError(err) {
		return nil, err
	}
	return x, nil
}

func exifString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return s
}

// decodeContainerTags reads EXIF tags with imagemeta, for containers goexif
// does not understand (HEIF, PNG, WebP) and blocks its layout check refused.
func decodeContainerTags(data []byte) (tags map[string]string, err error) {
	if len(data) == 0 {
		return nil, errors.New("empty buffer")
	}

	defer func() {
		if r := recover(); r != nil {
			tags, err = nil, errors.New("metadata decoder panicked")
		}
	}()

	format, err := detectImageFormat(data)
	if err != nil {
		return nil, err
	}

	tags = make(map[string]string)
	_, err = imagemeta.Decode(imagemeta.Options{
		R:           bytes.NewReader(data),
		ImageFormat: format,
		Sources:     imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return wantedTags[ti.Tag]
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			if s := tagValueString(ti.Value); s != "" {
				tags[ti.Tag] = s
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// detectImageFormat sniffs the container from its magic bytes
func detectImageFormat(data []byte) (imagemeta.ImageFormat, error) {
	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8}):
		return imagemeta.JPEG, nil
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return imagemeta.PNG, nil
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return imagemeta.TIFF, nil
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return imagemeta.WebP, nil
	case len(data) >= 12 && string(data[4:8]) == "ftyp":
		switch string(data[8:12]) {
		case "heic", "heix", "hevc", "hevx", "heim", "heis", "mif1", "msf1":
			return imagemeta.HEIF, nil
		case "avif", "avis":
			return imagemeta.AVIF, nil
		}
	}
	return imagemeta.ImageFormatAuto, ErrUnknownFormat
}

// tagValueString extracts a string from an imagemeta tag value
func tagValueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		if len(val) > 0 {
			return val[0]
		}
	case time.Time:
		return val.Format("2006:01:02 15:04:05")
	}
	return ""
}
