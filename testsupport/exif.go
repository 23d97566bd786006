// Package testsupport builds synthetic photo fixtures for tests.
package testsupport

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
)

// TagExifIFDPointer is the IFD0 entry pointing at the Exif sub-IFD
const TagExifIFDPointer = tagExifIFDPointer

const (
	tagMake           = 0x010F
	tagModel          = 0x0110
	tagSoftware       = 0x0131
	tagExifIFDPointer = 0x8769
	tagDateTimeOrig   = 0x9003

	typeASCII = 2
	typeLong  = 4
)

// EXIFTags lists the ASCII fields written into a synthetic EXIF block.
// Empty fields are omitted.
type EXIFTags struct {
	Make             string
	Model            string
	Software         string
	DateTimeOriginal string // "YYYY:MM:DD HH:MM:SS"
}

// MinimalJPEG is SOI followed by EOI: a JPEG with no metadata at all.
var MinimalJPEG = []byte{0xFF, 0xD8, 0xFF, 0xD9}

// JPEGWithEXIF returns SOI, an APP1 Exif segment carrying tags, then EOI.
func JPEGWithEXIF(tags EXIFTags) []byte {
	segment := append([]byte("Exif\x00\x00"), TIFFWithEXIF(tags)...)

	var b bytes.Buffer
	b.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	binary.Write(&b, binary.BigEndian, uint16(len(segment)+2))
	b.Write(segment)
	b.Write([]byte{0xFF, 0xD9})
	return b.Bytes()
}

// PNGWithEXIF returns a 1x1 PNG whose eXIf chunk carries tags
func PNGWithEXIF(tags EXIFTags) []byte {
	ihdr := binary.BigEndian.AppendUint32(nil, 1)
	ihdr = binary.BigEndian.AppendUint32(ihdr, 1)
	ihdr = append(ihdr, 8, 2, 0, 0, 0)

	out := []byte("\x89PNG\r\n\x1a\n")
	out = appendPNGChunk(out, "IHDR", ihdr)
	out = appendPNGChunk(out, "eXIf", TIFFWithEXIF(tags))
	return appendPNGChunk(out, "IEND", nil)
}

func appendPNGChunk(out []byte, kind string, data []byte) []byte {
	out = binary.BigEndian.AppendUint32(out, uint32(len(data)))
	body := append([]byte(kind), data...)
	out = append(out, body...)
	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(body))
}

// SetTagCount returns a copy of data with the value count of the first
// little-endian IFD entry for tag replaced. It panics when tag is absent.
func SetTagCount(data []byte, tag uint16, count uint32) []byte {
	var id [2]byte
	binary.LittleEndian.PutUint16(id[:], tag)
	i := bytes.Index(data, id[:])
	if i < 0 || i+8 > len(data) {
		panic("testsupport: tag not found")
	}
	out := bytes.Clone(data)
	binary.LittleEndian.PutUint32(out[i+4:], count)
	return out
}

// TIFFWithEXIF returns a little-endian TIFF structure with IFD0 holding the
// camera fields and an Exif sub-IFD holding DateTimeOriginal.
func TIFFWithEXIF(tags EXIFTags) []byte {
	var ifd0 []ifdEntry
	for _, f := range []struct {
		tag   uint16
		value string
	}{
		{tagMake, tags.Make},
		{tagModel, tags.Model},
		{tagSoftware, tags.Software},
	} {
		if f.value != "" {
			ifd0 = append(ifd0, asciiEntry(f.tag, f.value))
		}
	}

	var sub []ifdEntry
	if tags.DateTimeOriginal != "" {
		sub = append(sub, asciiEntry(tagDateTimeOrig, tags.DateTimeOriginal))
	}

	const ifd0Offset = 8
	if len(sub) > 0 {
		ifd0 = append(ifd0, ifdEntry{tag: tagExifIFDPointer, typ: typeLong, count: 1, value: make([]byte, 4)})
		subOffset := ifd0Offset + uint32(len(encodeIFD(ifd0, ifd0Offset)))
		binary.LittleEndian.PutUint32(ifd0[len(ifd0)-1].value, subOffset)
	}

	out := []byte{'I', 'I', 0x2A, 0x00}
	out = binary.LittleEndian.AppendUint32(out, ifd0Offset)
	out = append(out, encodeIFD(ifd0, ifd0Offset)...)
	if len(sub) > 0 {
		out = append(out, encodeIFD(sub, uint32(len(out)))...)
	}
	return out
}

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value []byte
}

func asciiEntry(tag uint16, s string) ifdEntry {
	v := append([]byte(s), 0)
	return ifdEntry{tag: tag, typ: typeASCII, count: uint32(len(v)), value: v}
}

// encodeIFD lays out one directory at offset, with values longer than four
// bytes placed directly after it.
func encodeIFD(entries []ifdEntry, offset uint32) []byte {
	le := binary.LittleEndian
	dataOffset := offset + 2 + 12*uint32(len(entries)) + 4

	head := le.AppendUint16(nil, uint16(len(entries)))
	var data []byte
	for _, e := range entries {
		head = le.AppendUint16(head, e.tag)
		head = le.AppendUint16(head, e.typ)
		head = le.AppendUint32(head, e.count)
		if len(e.value) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.value)
			head = append(head, inline...)
			continue
		}
		head = le.AppendUint32(head, dataOffset+uint32(len(data)))
		data = append(data, e.value...)
		if len(data)%2 == 1 {
			data = append(data, 0)
		}
	}
	head = le.AppendUint32(head, 0)
	return append(head, data...)
}
