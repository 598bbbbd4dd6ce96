package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
)

// WAV codec for 16-bit PCM. The TTS collaborator returns WAV bytes and
// the default exporter writes them, so both directions live here.

const (
	wavHeaderSize = 44
	pcmFormat     = 1
)

var (
	errNotWAV         = errors.New("not a RIFF/WAVE stream")
	errUnsupportedWAV = errors.New("unsupported WAV encoding (16-bit PCM only)")
)

// EncodeWAV serializes a track as a mono 16-bit PCM WAV file.
func EncodeWAV(t Track) []byte {
	dataLen := len(t.Samples) * 2
	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+dataLen))

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(pcmFormat))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(t.SampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(t.SampleRate*2)) // byte rate
	binary.Write(buf, binary.LittleEndian, uint16(2))              // block align
	binary.Write(buf, binary.LittleEndian, uint16(16))             // bits per sample

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	for _, s := range t.Samples {
		binary.Write(buf, binary.LittleEndian, int16(math.Round(clip(s)*32767)))
	}
	return buf.Bytes()
}

// DecodeWAV parses a 16-bit PCM WAV stream into a mono track, averaging
// channels when the source is multi-channel.
func DecodeWAV(data []byte) (Track, error) {
	if len(data) < wavHeaderSize || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Track{}, errNotWAV
	}

	var (
		sampleRate int
		channels   int
		bits       int
		pcm        []byte
	)

	// Walk RIFF chunks; fmt must precede data.
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			size = len(data) - body
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return Track{}, errUnsupportedWAV
			}
			format := int(binary.LittleEndian.Uint16(data[body : body+2]))
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			if format != pcmFormat || bits != 16 || channels < 1 {
				return Track{}, errUnsupportedWAV
			}
		case "data":
			pcm = data[body : body+size]
		}

		// Chunks are word-aligned.
		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if sampleRate == 0 || pcm == nil {
		return Track{}, errNotWAV
	}

	frameBytes := channels * 2
	frames := len(pcm) / frameBytes
	track := Track{
		Samples:    make([]float64, frames),
		SampleRate: sampleRate,
		Channels:   1,
	}
	for f := 0; f < frames; f++ {
		var sum float64
		for c := 0; c < channels; c++ {
			i := f*frameBytes + c*2
			sum += float64(int16(binary.LittleEndian.Uint16(pcm[i : i+2])))
		}
		track.Samples[f] = sum / float64(channels) / 32768
	}
	return track, nil
}

// Resample converts a track to the target rate by linear interpolation.
func Resample(t Track, rate int) Track {
	if t.SampleRate == rate || len(t.Samples) == 0 {
		t.SampleRate = rate
		return t
	}

	ratio := float64(t.SampleRate) / float64(rate)
	n := int(math.Round(float64(len(t.Samples)) / ratio))
	out := Track{Samples: make([]float64, n), SampleRate: rate, Channels: 1}
	for i := 0; i < n; i++ {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= len(t.Samples)-1 {
			out.Samples[i] = t.Samples[len(t.Samples)-1]
			continue
		}
		frac := pos - float64(j)
		out.Samples[i] = t.Samples[j]*(1-frac) + t.Samples[j+1]*frac
	}
	return out
}

// LooksLikeWAV is a cheap header check used before a full decode.
func LooksLikeWAV(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}
