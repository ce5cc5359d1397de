package imgio

import (
	"encoding/binary"
	"fmt"
)

// extractJPEGOrientation scans JPEG bytes for the EXIF APP1 segment
// and returns the orientation tag (1..8) if present. Only the
// orientation tag is decoded; patchfill has no use for the rest of
// EXIF (GPS, exposure, lens metadata, ...).
func extractJPEGOrientation(data []byte) (int, error) {
	tiffStart, err := parseTIFFStartFromJPEG(data)
	if err != nil {
		return 0, err
	}
	return readOrientationTag(data, tiffStart)
}

func parseTIFFStartFromJPEG(data []byte) (int, error) {
	if len(data) < 4 {
		return -1, fmt.Errorf("imgio: jpeg data too short")
	}
	i := 2
	for i+4 < len(data) {
		if data[i] != 0xFF {
			i++
			continue
		}
		marker := data[i+1]
		if marker == 0xDA {
			break
		}
		segLen := int(data[i+2])<<8 | int(data[i+3])
		if marker == 0xE1 && segLen >= 8 {
			if i+4+6 <= len(data) && string(data[i+4:i+10]) == "Exif\x00\x00" {
				return i + 10, nil
			}
		}
		if segLen <= 2 {
			i += 2
		} else {
			i += 2 + segLen
		}
	}
	return -1, fmt.Errorf("imgio: no exif segment")
}

// readOrientationTag walks IFD0 of a TIFF header looking for tag
// 0x0112 (Orientation); linked IFDs are not followed.
func readOrientationTag(data []byte, tiffStart int) (int, error) {
	if tiffStart+8 > len(data) {
		return 0, fmt.Errorf("imgio: tiff header truncated")
	}
	var order binary.ByteOrder
	switch {
	case data[tiffStart] == 'M' && data[tiffStart+1] == 'M':
		order = binary.BigEndian
	case data[tiffStart] == 'I' && data[tiffStart+1] == 'I':
		order = binary.LittleEndian
	default:
		return 0, fmt.Errorf("imgio: unknown tiff byte order")
	}
	if order.Uint16(data[tiffStart+2:tiffStart+4]) != 0x002A {
		return 0, fmt.Errorf("imgio: invalid tiff magic")
	}

	off := int(order.Uint32(data[tiffStart+4 : tiffStart+8]))
	if off <= 0 || tiffStart+off >= len(data) {
		return 0, fmt.Errorf("imgio: no ifd0 offset")
	}

	absIfd := tiffStart + off
	if absIfd+2 > len(data) {
		return 0, fmt.Errorf("imgio: ifd0 truncated")
	}
	nEntries := int(order.Uint16(data[absIfd : absIfd+2]))
	entriesBase := absIfd + 2
	for e := 0; e < nEntries; e++ {
		ent := entriesBase + e*12
		if ent+12 > len(data) {
			break
		}
		tag := order.Uint16(data[ent : ent+2])
		if tag != 0x0112 {
			continue
		}
		typ := order.Uint16(data[ent+2 : ent+4])
		if typ != 3 { // SHORT
			continue
		}
		v := order.Uint16(data[ent+8 : ent+10])
		if v < 1 || v > 8 {
			return 0, fmt.Errorf("imgio: orientation value %d out of range", v)
		}
		return int(v), nil
	}
	return 0, fmt.Errorf("imgio: orientation tag not found")
}
