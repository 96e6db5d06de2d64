package sample

import (
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20"
)

// Stream is a deterministic io.Reader producing the ChaCha20 keystream for a seed.
//
// It lets tests and simulations replay a dealer or a share construction
// exactly. It must never be used where real secrecy is needed with a
// guessable seed.
type Stream struct {
	mtx    sync.Mutex
	cipher *chacha20.Cipher
}

// NewStream derives a ChaCha20 key from seed and returns the keystream reader.
func NewStream(seed []byte) *Stream {
	key := blake3.Sum256(seed)
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	if err != nil {
		// key and nonce sizes are fixed
		panic(err)
	}
	return &Stream{cipher: c}
}

// Read implements io.Reader. It never fails.
func (s *Stream) Read(p []byte) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	for i := range p {
		p[i] = 0
	}
	s.cipher.XORKeyStream(p, p)
	return len(p), nil
}
