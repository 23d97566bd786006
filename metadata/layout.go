package metadata

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const exifHeader = "Exif\x00\x00"

// maxIFDs bounds the directories walked in one EXIF block
const maxIFDs = 64

var errCorruptEXIF = errors.New("corrupt EXIF layout")

// tiffTypeSize is the byte size of one value of each TIFF field type
var tiffTypeSize = map[uint16]uint64{
	1: 1, 2: 1, 3: 2, 4: 4, 5: 8, 6: 1,
	7: 1, 8: 2, 9: 4, 10: 8, 11: 4, 12: 8,
}

// subIFDPointers are the Exif, GPS and Interoperability directory pointers
var subIFDPointers = map[uint16]bool{
	0x8769: true,
	0x8825: true,
	0xA005: true,
}

// locateTIFF returns the TIFF structure goexif would decode from data: the
// buffer itself for TIFF, or the payload of the first APP1 segment for JPEG.
func locateTIFF(data []byte) ([]byte, bool) {
	switch {
	case len(data) < 4:
		return nil, false
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return data, true
	case bytes.HasPrefix(data, []byte("Exif")):
		if !bytes.HasPrefix(data, []byte(exifHeader)) {
			return nil, false
		}
		return data[len(exifHeader):], true
	}

	for i := 0; i < len(data); {
		j := bytes.IndexByte(data[i:], 0xFF)
		if j < 0 || i+j+1 >= len(data) {
			return nil, false
		}
		pos := i + j + 1
		marker := data[pos]
		pos++
		i = pos
		if marker != 0xE1 {
			continue
		}

		if pos+2 > len(data) {
			return nil, false
		}
		n := int(binary.BigEndian.Uint16(data[pos:])) - 2
		pos += 2
		i = pos
		if n == 0 {
			continue
		}
		if n < 0 || pos+n > len(data) {
			return nil, false
		}
		segment := data[pos : pos+n]
		if !bytes.HasPrefix(segment, []byte(exifHeader)) {
			return nil, false
		}
		return segment[len(exifHeader):], true
	}
	return nil, false
}

// checkTIFFLayout rejects blocks whose tag counts claim more values than the
// block holds, and IFD chains that loop. Truncated blocks pass; the decoder
// reports those itself.
func checkTIFFLayout(block []byte) error {
	if len(block) < 8 {
		return errCorruptEXIF
	}

	w := ifdWalker{data: block, visited: make(map[uint32]bool)}
	switch string(block[:2]) {
	case "II":
		w.order = binary.LittleEndian
	case "MM":
		w.order = binary.BigEndian
	default:
		return errCorruptEXIF
	}

	chain := make(map[uint32]bool)
	offset := w.order.Uint32(block[4:])
	for offset != 0 {
		if chain[offset] {
			return errCorruptEXIF
		}
		chain[offset] = true
		next, err := w.dir(offset)
		if err != nil {
			return err
		}
		offset = next
	}
	return nil
}

type ifdWalker struct {
	data    []byte
	order   binary.ByteOrder
	visited map[uint32]bool
}

// dir checks the directory at offset and the sub-directories it points to,
// returning the offset of the next directory in the chain.
func (w *ifdWalker) dir(offset uint32) (uint32, error) {
	if len(w.visited) >= maxIFDs {
		return 0, errCorruptEXIF
	}
	w.visited[offset] = true

	size := uint64(len(w.data))
	pos := uint64(offset)
	if pos+2 > size {
		return 0, nil
	}
	count := int(int16(w.order.Uint16(w.data[pos:])))
	pos += 2

	for k := 0; k < count; k++ {
		if pos+12 > size {
			return 0, nil
		}
		entry := w.data[pos : pos+12]
		pos += 12

		tag := w.order.Uint16(entry)
		typ := w.order.Uint16(entry[2:])
		n := uint64(w.order.Uint32(entry[4:]))
		if typeSize, ok := tiffTypeSize[typ]; ok && n*typeSize > size {
			return 0, errCorruptEXIF
		}

		if !subIFDPointers[tag] || n == 0 || (typ != 3 && typ != 4) {
			continue
		}
		value := entry[8:]
		if n*tiffTypeSize[typ] > 4 {
			at := uint64(w.order.Uint32(entry[8:]))
			if at+4 > size {
				continue
			}
			value = w.data[at:]
		}
		sub := w.order.Uint32(value)
		if typ == 3 {
			sub = uint32(w.order.Uint16(value))
		}
		if sub == 0 || w.visited[sub] {
			continue
		}
		if _, err := w.dir(sub); err != nil {
			return 0, err
		}
	}

	if pos+4 > size {
		return 0, nil
	}
	return w.order.Uint32(w.data[pos:]), nil
}
