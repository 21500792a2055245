// Package audio converts telephony audio into the 16-bit linear PCM the
// recognizer expects.
package audio

import (
	"encoding/base64"
	"encoding/binary"
)

// SampleRate is the narrowband telephony rate shared by every socket.
const SampleRate = 8000

// ConvertMuLawToPCM16 decodes G.711 mu-law into little-endian 16-bit PCM at the
// same sample rate.
func ConvertMuLawToPCM16(mulaw []byte) []byte {
	pcm := make([]byte, len(mulaw)*2)
	for i, b := range mulaw {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(mulawToLinear(b)))
	}
	return pcm
}

// ConvertPCM16ToMuLaw encodes little-endian 16-bit PCM as G.711 mu-law. A trailing
// odd byte is dropped.
func ConvertPCM16ToMuLaw(pcm []byte) []byte {
	mulaw := make([]byte, len(pcm)/2)
	for i := range mulaw {
		mulaw[i] = linearToMulaw(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}
	return mulaw
}

// IntsToPCM16 packs decoded samples of the given bit depth into little-endian
// 16-bit PCM.
func IntsToPCM16(samples []int, bitDepth int) []byte {
	pcm := make([]byte, len(samples)*2)
	for i, sample := range samples {
		switch {
		case bitDepth > 16:
			sample >>= bitDepth - 16
		case bitDepth == 8:
			// 8-bit WAV is unsigned
			sample = (sample - 128) << 8
		}
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(sample)))
	}
	return pcm
}

// DownsamplePCM16 keeps every factor-th sample.
func DownsamplePCM16(pcm []byte, factor int) []byte {
	if factor <= 1 {
		return pcm
	}
	samples := len(pcm) / 2
	out := make([]byte, 0, (samples/factor+1)*2)
	for i := 0; i < samples; i += factor {
		out = append(out, pcm[i*2], pcm[i*2+1])
	}
	return out
}

func Base64ToBytes(base64String string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(base64String)
}

func BytesToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

const (
	mulawBias = 0x84
	mulawClip = 32635
)

func mulawToLinear(b byte) int16 {
	b = ^b

	sign := b & 0x80
	exponent := (b >> 4) & 0x07
	mantissa := b & 0x0F

	sample := (int16(mantissa)<<3 | mulawBias) << exponent
	sample -= mulawBias

	if sign != 0 {
		return -sample
	}
	return sample
}

func linearToMulaw(sample int16) byte {
	var sign byte
	s := int32(sample)
	if s < 0 {
		sign = 0x80
		s = -s
	}
	if s > mulawClip {
		s = mulawClip
	}
	s += mulawBias

	exponent := byte(7)
	for mask := int32(0x4000); exponent > 0 && s&mask == 0; mask >>= 1 {
		exponent--
	}
	mantissa := byte(s>>(exponent+3)) & 0x0F

	return ^(sign | exponent<<4 | mantissa)
}
