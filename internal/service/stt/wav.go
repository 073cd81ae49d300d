package stt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var ErrInvalidWAV = errors.New("stt: invalid wav")

// WAV is decoded 16-bit PCM audio.
type WAV struct {
	SampleRateHz int
	Channels     int
	PCM          []byte
}

// ReadWAV reads a RIFF/WAVE file holding 16-bit linear PCM. Unknown chunks
// are skipped.
func ReadWAV(r io.Reader) (*WAV, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidWAV, err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE file", ErrInvalidWAV)
	}

	var w WAV
	haveFmt := false
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("%w: missing data chunk", ErrInvalidWAV)
		}
		id := string(hdr[0:4])
		size := int64(binary.LittleEndian.Uint32(hdr[4:8]))

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%w: short fmt chunk", ErrInvalidWAV)
			}
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("%w: fmt chunk: %v", ErrInvalidWAV, err)
			}
			format := binary.LittleEndian.Uint16(buf[0:2])
			bits := binary.LittleEndian.Uint16(buf[14:16])
			if format != 1 || bits != 16 {
				return nil, fmt.Errorf("%w: want 16-bit PCM, got format %d with %d bits", ErrInvalidWAV, format, bits)
			}
			w.Channels = int(binary.LittleEndian.Uint16(buf[2:4]))
			w.SampleRateHz = int(binary.LittleEndian.Uint32(buf[4:8]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, fmt.Errorf("%w: data before fmt", ErrInvalidWAV)
			}
			pcm, err := io.ReadAll(io.LimitReader(r, size))
			if err != nil {
				return nil, err
			}
			w.PCM = pcm
			return &w, nil
		default:
			if _, err := io.CopyN(io.Discard, r, size+size%2); err != nil {
				return nil, fmt.Errorf("%w: chunk %q: %v", ErrInvalidWAV, id, err)
			}
		}
		if size%2 == 1 && id == "fmt " {
			if _, err := io.CopyN(io.Discard, r, 1); err != nil {
				return nil, fmt.Errorf("%w: padding: %v", ErrInvalidWAV, err)
			}
		}
	}
}
