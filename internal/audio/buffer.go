package audio

import "sync"

// Buffer is a bounded FIFO of audio chunks. When full, the oldest chunk is
// evicted to make room for the newest: bounded staleness over bounded memory.
// Push never blocks; consumers receive from C.
type Buffer struct {
	mu     sync.Mutex
	chunks chan []byte
}

func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 100
	}
	return &Buffer{chunks: make(chan []byte, capacity)}
}

// Push enqueues a copy of the chunk, evicting the oldest entry on overflow.
func (b *Buffer) Push(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	copied := append([]byte(nil), chunk...)

	b.mu.Lock()
	defer b.mu.Unlock()
	for {
		select {
		case b.chunks <- copied:
			return
		default:
		}
		select {
		case <-b.chunks:
		default:
		}
	}
}

// C is the receive side of the buffer.
func (b *Buffer) C() <-chan []byte {
	return b.chunks
}

// Drain discards all buffered chunks and returns how many were dropped.
func (b *Buffer) Drain() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	dropped := 0
	for {
		select {
		case <-b.chunks:
			dropped++
		default:
			return dropped
		}
	}
}

// Len reports the number of buffered chunks.
func (b *Buffer) Len() int {
	return len(b.chunks)
}

// SilenceChunk returns 100ms of LINEAR16 silence at the given sample rate,
// used to keep an idle recognition stream alive.
func SilenceChunk(sampleRate int) []byte {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return make([]byte, sampleRate/10*2)
}
