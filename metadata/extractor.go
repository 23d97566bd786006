// Package metadata resolves the capture date of a photo from its embedded
// EXIF metadata, falling back to date patterns found in the filename.
package metadata

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

var (
	// ErrNoMetadata means the buffer is not a container any decoder recognises
	ErrNoMetadata = errors.New("no readable EXIF metadata")
	// ErrNoCaptureDate means metadata was found but has no DateTimeOriginal
	ErrNoCaptureDate = errors.New("no DateTimeOriginal field in EXIF metadata")
	// ErrInvalidDate means a date was found but is not a real calendar date
	ErrInvalidDate = errors.New("invalid calendar date")
	// ErrNoFilenameDate means no filename pattern produced a valid date
	ErrNoFilenameDate = errors.New("no date pattern found in filename")
	// ErrUnknownFormat means the buffer is not an image container the
	// fallback decoder knows
	ErrUnknownFormat = errors.New("unknown image format")
)

// DateExtractor defines the interface for resolving a photo's date
type DateExtractor interface {
	// ExtractDate returns the date for the photo with the given name and content
	ExtractDate(filename string, data []byte) (Date, error)

	// Name returns the name of this extractor for logging/debugging
	Name() string
}

// EXIFExtractor reads the original capture timestamp from embedded metadata.
// The filename is ignored.
type EXIFExtractor struct{}

func (e *EXIFExtractor) Name() string {
	return "EXIF"
}

func (e *EXIFExtractor) ExtractDate(_ string, data []byte) (Date, error) {
	raw, err := captureTimestamp(data)
	if err != nil {
		return Date{}, err
	}
	return parseEXIFDate(raw)
}

// captureTimestamp returns the raw DateTimeOriginal text. goexif handles JPEG
// and TIFF; anything it cannot open is retried with imagemeta.
func captureTimestamp(data []byte) (string, error) {
	x, err := decodeEXIF(data)
	if err == nil {
		tag, err := x.Get(exif.DateTimeOriginal)
		if err != nil {
			return "", ErrNoCaptureDate
		}
		s, err := tag.StringVal()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		return s, nil
	}

	tags, metaErr := decodeContainerTags(data)
	if metaErr != nil {
		return "", fmt.Errorf("%w: %v", ErrNoMetadata, err)
	}
	s, ok := tags[tagDateTimeOriginal]
	if !ok {
		return "", ErrNoCaptureDate
	}
	return s, nil
}

// parseEXIFDate turns "YYYY:MM:DD HH:MM:SS" into a Date, keeping only the
// text before the first whitespace.
func parseEXIFDate(raw string) (Date, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return Date{}, fmt.Errorf("%w: empty EXIF timestamp", ErrInvalidDate)
	}
	normalized := strings.ReplaceAll(fields[0], ":", "-")
	t, err := time.Parse("2006-01-02", normalized)
	if err != nil {
		return Date{}, fmt.Errorf("%w: EXIF timestamp %q", ErrInvalidDate, raw)
	}
	return dateFromTime(t), nil
}

// CompositeExtractor tries each extractor in order and returns the first
// success. When all fail the last extractor's error is returned.
type CompositeExtractor struct {
	extractors []DateExtractor
}

// NewCompositeExtractor returns the standard chain: EXIF first, filename second.
// Metadata always wins, even when the filename names a different date.
func NewCompositeExtractor() *CompositeExtractor {
	return NewCompositeExtractorWith(&EXIFExtractor{}, &FilenameExtractor{})
}

// NewCompositeExtractorWith builds a chain from the given extractors
func NewCompositeExtractorWith(extractors ...DateExtractor) *CompositeExtractor {
	return &CompositeExtractor{extractors: extractors}
}

func (c *CompositeExtractor) Name() string {
	names := make([]string, 0, len(c.extractors))
	for _, e := range c.extractors {
		names = append(names, e.Name())
	}
	return strings.Join(names, "+")
}

func (c *CompositeExtractor) ExtractDate(filename string, data []byte) (Date, error) {
	lastErr := errors.New("no date extractors configured")
	for _, extractor := range c.extractors {
		date, err := extractor.ExtractDate(filename, data)
		if err == nil {
			return date, nil
		}
		lastErr = err
	}
	return Date{}, lastErr
}
