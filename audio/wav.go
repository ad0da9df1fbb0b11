package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// WAV format codes we accept
const (
	wavFormatPCM   = 1
	wavFormatFloat = 3
)

// maxWAVChunkSize bounds a single declared chunk. 64 MiB is hours of audio at
// the highest supported rate; anything larger is a corrupt or hostile header,
// rejected before allocation.
const maxWAVChunkSize = 64 << 20

// fmt chunk must carry at least the 16 PCM header bytes we decode.
const minFmtChunkSize = 16

// DecodeWAV parses a RIFF/WAVE stream into a mono float64 PCM buffer in
// [-1, 1]. Multi-channel input is downmixed by averaging channels. Supported
// encodings: 16-bit integer PCM and 32-bit IEEE float.
func DecodeWAV(r io.Reader, metadata *Metadata) (*VoiceSample, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, fmt.Errorf("unreadable WAV header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE stream")
	}

	var (
		format     uint16
		channels   uint16
		sampleRate uint32
		bitDepth   uint16
		data       []byte
	)

	// Walk chunks until the data chunk. Chunks we don't care about (LIST,
	// fact, cue) are skipped by their declared size.
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, fmt.Errorf("corrupt chunk header: %w", err)
		}
		chunkID := string(hdr[0:4])
		chunkSize := binary.LittleEndian.Uint32(hdr[4:8])
		if chunkSize > maxWAVChunkSize {
			return nil, fmt.Errorf("unreadable WAV: %q chunk declares %d bytes", chunkID, chunkSize)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < minFmtChunkSize {
				return nil, fmt.Errorf("unreadable WAV: fmt chunk truncated to %d bytes", chunkSize)
			}
			fmtChunk := make([]byte, chunkSize)
			if _, err := io.ReadFull(r, fmtChunk); err != nil {
				return nil, fmt.Errorf("corrupt fmt chunk: %w", err)
			}
			format = binary.LittleEndian.Uint16(fmtChunk[0:2])
			channels = binary.LittleEndian.Uint16(fmtChunk[2:4])
			sampleRate = binary.LittleEndian.Uint32(fmtChunk[4:8])
			bitDepth = binary.LittleEndian.Uint16(fmtChunk[14:16])

		case "data":
			data = make([]byte, chunkSize)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, fmt.Errorf("truncated data chunk: %w", err)
			}

		default:
			// Pad byte if chunk size is odd
			skip := int64(chunkSize)
			if chunkSize%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return nil, fmt.Errorf("corrupt %q chunk: %w", chunkID, err)
			}
		}

		if data != nil && format != 0 {
			break
		}
	}

	if format == 0 {
		return nil, fmt.Errorf("missing fmt chunk")
	}
	if data == nil {
		return nil, fmt.Errorf("missing data chunk")
	}
	if channels == 0 {
		return nil, fmt.Errorf("invalid channel count 0")
	}

	pcm, err := decodeSamples(data, format, bitDepth, int(channels))
	if err != nil {
		return nil, err
	}

	return NewVoiceSample(pcm, int(sampleRate), metadata)
}

// DecodeWAVFile opens and decodes a WAV file from disk.
func DecodeWAVFile(path string, metadata *Metadata) (*VoiceSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open audio file: %w", err)
	}
	defer f.Close()

	return DecodeWAV(f, metadata)
}

// decodeSamples converts interleaved sample bytes to mono float64 PCM.
func decodeSamples(data []byte, format, bitDepth uint16, channels int) ([]float64, error) {
	switch {
	case format == wavFormatPCM && bitDepth == 16:
		frameBytes := 2 * channels
		numFrames := len(data) / frameBytes
		pcm := make([]float64, numFrames)
		for i := range numFrames {
			sum := 0.0
			for c := range channels {
				offset := i*frameBytes + c*2
				s := int16(binary.LittleEndian.Uint16(data[offset : offset+2]))
				sum += float64(s) / 32768.0
			}
			pcm[i] = sum / float64(channels)
		}
		return pcm, nil

	case format == wavFormatFloat && bitDepth == 32:
		frameBytes := 4 * channels
		numFrames := len(data) / frameBytes
		pcm := make([]float64, numFrames)
		for i := range numFrames {
			sum := 0.0
			for c := range channels {
				offset := i*frameBytes + c*4
				bits := binary.LittleEndian.Uint32(data[offset : offset+4])
				sum += float64(math.Float32frombits(bits))
			}
			pcm[i] = sum / float64(channels)
		}
		return pcm, nil

	default:
		return nil, fmt.Errorf("unsupported WAV encoding (format=%d, bit depth=%d)", format, bitDepth)
	}
}
