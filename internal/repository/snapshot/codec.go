package snapshot

import (
	"encoding/binary"
	"math"
)

// Similarity rows and latent factor vectors are stored as little-endian
// float64 BLOBs, one value per 8 bytes.

func encodeVector(vec []float64) []byte {
	buf := make([]byte, 8*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func decodeVector(b []byte) []float64 {
	n := len(b) / 8
	vec := make([]float64, n)
	for i := 0; i < n; i++ {
		vec[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return vec
}
