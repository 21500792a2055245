package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"github.com/nexmo-community/dial-ynab/internal/voice/audio"
)

// frameBytes is 20 ms of 16-bit mono audio at 8 kHz.
const frameBytes = audio.SampleRate / 50 * 2

var ErrUnsupportedWAV = errors.New("unsupported wav file")

// loadPCM decodes a WAV file into 16-bit mono PCM at 8 kHz. Only the first
// channel is kept, and sample rates that are a multiple of 8 kHz are decimated.
func loadPCM(r io.ReadSeeker) ([]byte, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: not a PCM wav file", ErrUnsupportedWAV)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode wav: %w", err)
	}

	rate := int(decoder.SampleRate)
	if rate < audio.SampleRate || rate%audio.SampleRate != 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrUnsupportedWAV, rate)
	}

	samples := buf.Data
	if channels := int(decoder.NumChans); channels > 1 {
		mono := make([]int, 0, len(samples)/channels)
		for i := 0; i < len(samples); i += channels {
			mono = append(mono, samples[i])
		}
		samples = mono
	}

	pcm := audio.IntsToPCM16(samples, int(decoder.BitDepth))
	return audio.DownsamplePCM16(pcm, rate/audio.SampleRate), nil
}

// frames splits pcm into chunks of size bytes. The last chunk may be short.
func frames(pcm []byte, size int) [][]byte {
	out := make([][]byte, 0, len(pcm)/size+1)
	for start := 0; start < len(pcm); start += size {
		end := min(start+size, len(pcm))
		out = append(out, pcm[start:end])
	}
	return out
}
