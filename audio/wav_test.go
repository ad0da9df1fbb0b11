package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// encodeWAV builds a minimal RIFF/WAVE stream around the given sample data.
func encodeWAV(t *testing.T, format, channels, bitDepth int, sampleRate int, data []byte) []byte {
	t.Helper()

	var body bytes.Buffer
	write := func(v any) {
		require.NoError(t, binary.Write(&body, binary.LittleEndian, v))
	}

	body.WriteString("WAVE")

	body.WriteString("fmt ")
	write(uint32(16))
	write(uint16(format))
	write(uint16(channels))
	write(uint32(sampleRate))
	write(uint32(sampleRate * channels * bitDepth / 8)) // byte rate
	write(uint16(channels * bitDepth / 8))              // block align
	write(uint16(bitDepth))

	body.WriteString("data")
	write(uint32(len(data)))
	body.Write(data)

	var out bytes.Buffer
	out.WriteString("RIFF")
	require.NoError(t, binary.Write(&out, binary.LittleEndian, uint32(body.Len())))
	out.Write(body.Bytes())
	return out.Bytes()
}

func pcm16Sine(t *testing.T, freq float64, sampleRate, n int) []byte {
	t.Helper()

	var data bytes.Buffer
	for i := range n {
		v := 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
		require.NoError(t, binary.Write(&data, binary.LittleEndian, int16(v*32767)))
	}
	return data.Bytes()
}

func TestDecodeWAVPCM16(t *testing.T) {
	req := require.New(t)

	const sampleRate = 16000
	n := 4 * sampleRate
	raw := encodeWAV(t, wavFormatPCM, 1, 16, sampleRate, pcm16Sine(t, 220.0, sampleRate, n))

	sample, err := DecodeWAV(bytes.NewReader(raw), nil)
	req.NoError(err)
	req.Equal(sampleRate, sample.SampleRate)
	req.Len(sample.PCM, n)
	req.InDelta(4.0, sample.Seconds(), 1e-6)

	for _, v := range sample.PCM {
		req.LessOrEqual(math.Abs(v), 1.0)
	}
}

func TestDecodeWAVFloat32(t *testing.T) {
	req := require.New(t)

	const sampleRate = 16000
	n := 4 * sampleRate
	var data bytes.Buffer
	for i := range n {
		v := float32(0.25 * math.Sin(2*math.Pi*180.0*float64(i)/sampleRate))
		req.NoError(binary.Write(&data, binary.LittleEndian, v))
	}

	raw := encodeWAV(t, wavFormatFloat, 1, 32, sampleRate, data.Bytes())
	sample, err := DecodeWAV(bytes.NewReader(raw), nil)
	req.NoError(err)
	req.Len(sample.PCM, n)

	peak := 0.0
	for _, v := range sample.PCM {
		if math.Abs(v) > peak {
			peak = math.Abs(v)
		}
	}
	req.InDelta(0.25, peak, 1e-3)
}

func TestDecodeWAVStereoDownmix(t *testing.T) {
	req := require.New(t)

	const sampleRate = 16000
	n := 4 * sampleRate
	var data bytes.Buffer
	for range n {
		// Left at +0.5, right at -0.25: downmix averages to 0.125.
		req.NoError(binary.Write(&data, binary.LittleEndian, int16(0.5*32768)))
		req.NoError(binary.Write(&data, binary.LittleEndian, int16(-0.25*32768)))
	}

	raw := encodeWAV(t, wavFormatPCM, 2, 16, sampleRate, data.Bytes())
	sample, err := DecodeWAV(bytes.NewReader(raw), nil)
	req.NoError(err)
	req.Len(sample.PCM, n)
	req.InDelta(0.125, sample.PCM[0], 1e-3)
}

func TestDecodeWAVSkipsUnknownChunks(t *testing.T) {
	req := require.New(t)

	const sampleRate = 16000
	raw := encodeWAV(t, wavFormatPCM, 1, 16, sampleRate, pcm16Sine(t, 220.0, sampleRate, 4*sampleRate))

	// Splice a LIST chunk between the fmt and data chunks.
	var spliced bytes.Buffer
	spliced.Write(raw[:12+8+16])
	spliced.WriteString("LIST")
	req.NoError(binary.Write(&spliced, binary.LittleEndian, uint32(6)))
	spliced.Write([]byte{'I', 'N', 'F', 'O', 0, 0})
	spliced.Write(raw[12+8+16:])

	sample, err := DecodeWAV(bytes.NewReader(spliced.Bytes()), nil)
	req.NoError(err)
	req.Equal(sampleRate, sample.SampleRate)
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	req := require.New(t)

	_, err := DecodeWAV(bytes.NewReader([]byte("not a wav file at all")), nil)
	req.Error(err)

	_, err = DecodeWAV(bytes.NewReader(nil), nil)
	req.Error(err)
}

func TestDecodeWAVRejectsTruncatedFmtChunk(t *testing.T) {
	req := require.New(t)

	// A fmt chunk declaring fewer than the 16 header bytes must be rejected
	// as unreadable, never sliced past its capacity.
	var body bytes.Buffer
	body.WriteString("WAVE")
	body.WriteString("fmt ")
	req.NoError(binary.Write(&body, binary.LittleEndian, uint32(8)))
	body.Write(make([]byte, 8))
	body.WriteString("data")
	req.NoError(binary.Write(&body, binary.LittleEndian, uint32(0)))

	var out bytes.Buffer
	out.WriteString("RIFF")
	req.NoError(binary.Write(&out, binary.LittleEndian, uint32(body.Len())))
	out.Write(body.Bytes())

	_, err := DecodeWAV(bytes.NewReader(out.Bytes()), nil)
	req.Error(err)
	req.Contains(err.Error(), "fmt chunk")
}

func TestDecodeWAVRejectsOversizedChunk(t *testing.T) {
	req := require.New(t)

	// A 44-byte stream declaring a ~4 GiB data chunk must fail before any
	// allocation is attempted.
	var body bytes.Buffer
	body.WriteString("WAVE")
	body.WriteString("fmt ")
	req.NoError(binary.Write(&body, binary.LittleEndian, uint32(16)))
	req.NoError(binary.Write(&body, binary.LittleEndian, uint16(wavFormatPCM)))
	req.NoError(binary.Write(&body, binary.LittleEndian, uint16(1)))
	req.NoError(binary.Write(&body, binary.LittleEndian, uint32(16000)))
	req.NoError(binary.Write(&body, binary.LittleEndian, uint32(32000)))
	req.NoError(binary.Write(&body, binary.LittleEndian, uint16(2)))
	req.NoError(binary.Write(&body, binary.LittleEndian, uint16(16)))
	body.WriteString("data")
	req.NoError(binary.Write(&body, binary.LittleEndian, uint32(0xFFFFFFF0)))

	var out bytes.Buffer
	out.WriteString("RIFF")
	req.NoError(binary.Write(&out, binary.LittleEndian, uint32(body.Len())))
	out.Write(body.Bytes())

	_, err := DecodeWAV(bytes.NewReader(out.Bytes()), nil)
	req.Error(err)
	req.Contains(err.Error(), "declares")
}

func TestDecodeWAVRejectsUnsupportedEncoding(t *testing.T) {
	req := require.New(t)

	// 8-bit PCM is not supported.
	raw := encodeWAV(t, wavFormatPCM, 1, 8, 16000, make([]byte, 4*16000))
	_, err := DecodeWAV(bytes.NewReader(raw), nil)
	req.Error(err)
}
