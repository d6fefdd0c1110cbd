package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// NewID returns a 26-character Crockford base32 ULID. IDs generated in the
// same millisecond carry an increasing sequence so they sort in creation order.
func NewID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	var tsBuf [8]byte
	binary.BigEndian.PutUint64(tsBuf[:], ts)
	copy(b[:6], tsBuf[2:])
	rand.Read(b[6:])
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeULID(b)
}

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// encodeULID writes 128 bits as 26 five-bit symbols. The first symbol has two
// leading zero pad bits.
func encodeULID(b [16]byte) string {
	var out [26]byte
	for i := range out {
		var v byte
		for k := 0; k < 5; k++ {
			pos := i*5 + k - 2
			v <<= 1
			if pos >= 0 && b[pos/8]&(0x80>>(pos%8)) != 0 {
				v |= 1
			}
		}
		out[i] = crockford[v]
	}
	return string(out[:])
}
