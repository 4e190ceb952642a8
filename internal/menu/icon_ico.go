package menu

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/png"
)

// icoHeader is an ICONDIR followed by a single ICONDIRENTRY.
type icoHeader struct {
	Reserved   uint16
	Type       uint16
	Count      uint16
	Width      uint8
	Height     uint8
	Colors     uint8
	_          uint8
	Planes     uint16
	BitCount   uint16
	BytesInRes uint32
	Offset     uint32
}

const icoHeaderSize = 6 + 16

// pngToICO wraps PNG data in a single-image ICO container. Data that is
// already ICO is returned as is.
func pngToICO(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, []byte{0, 0, 1, 0}) {
		return data, nil
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid icon size %dx%d", cfg.Width, cfg.Height)
	}

	header := icoHeader{
		Type:       1,
		Count:      1,
		Width:      icoDimension(cfg.Width),
		Height:     icoDimension(cfg.Height),
		Planes:     1,
		BitCount:   32,
		BytesInRes: uint32(len(data)),
		Offset:     icoHeaderSize,
	}
	buf := bytes.NewBuffer(make([]byte, 0, icoHeaderSize+len(data)))
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, err
	}
	buf.Write(data)
	return buf.Bytes(), nil
}

// icoDimension encodes 256 and larger as 0.
func icoDimension(v int) uint8 {
	if v >= 256 {
		return 0
	}
	return uint8(v)
}
