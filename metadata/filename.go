package metadata

import (
	"fmt"
	"regexp"
	"time"

	"photoorganizer/source"
)

// filenamePatterns are tried in order; first valid match wins. Order matters:
// the generic patterns also match the names the specific ones are meant for.
// Prefixes match in any case.
var filenamePatterns = []struct {
	regex  *regexp.Regexp
	layout string
	desc   string
}{
	// Screenshot_2013-04-19-19-46-43.png
	{regexp.MustCompile(`(?i)Screenshot_(\d{4}-\d{2}-\d{2})`), "2006-01-02", "Android screenshot"},

	// 2019-05-01 trip.jpg
	{regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`), "2006-01-02", "dashed date"},

	// PXL_20231104_101502123.jpg, 20231104_101502.mp4
	{regexp.MustCompile(`(\d{8})_\d{6}`), "20060102", "compact date-time"},

	// IMG_20231104_101502.jpg
	{regexp.MustCompile(`(?i)IMG_(\d{8})_\d{6}`), "20060102", "IMG_ compact date-time"},

	// IMG-20231104-WA0001.jpg (WhatsApp)
	{regexp.MustCompile(`(?i)IMG-(\d{8})-`), "20060102", "IMG- compact date"},
}

// FilenameExtractor recovers a date from well-known camera and app naming
// schemes. Content is ignored.
type FilenameExtractor struct{}

func (f *FilenameExtractor) Name() string {
	return "Filename"
}

// ExtractDate matches only the last path segment of filename, split on either
// separator. A pattern whose digits are not a real date falls through to the
// next pattern.
func (f *FilenameExtractor) ExtractDate(filename string, _ []byte) (Date, error) {
	base := source.BaseName(filename)
	for _, p := range filenamePatterns {
		matches := p.regex.FindStringSubmatch(base)
		if len(matches) < 2 {
			continue
		}
		t, err := time.Parse(p.layout, matches[1])
		if err != nil {
			continue
		}
		return dateFromTime(t), nil
	}
	return Date{}, fmt.Errorf("%w %q", ErrNoFilenameDate, base)
}
