// File: api/chain.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Chain is the buffer-chain primitive messages are accumulated into. Chunks
// are referenced, never copied, so a chain append is O(1) and zero-copy.

package api

// Chain is an ordered chain of byte chunks belonging to one message.
type Chain struct {
	chunks [][]byte
	size   int
}

// Append links a chunk to the tail of the chain without copying.
func (ch *Chain) Append(p []byte) {
	ch.chunks = append(ch.chunks, p)
	ch.size += len(p)
}

// Len returns the total byte length across all chunks.
func (ch *Chain) Len() int { return ch.size }

// Chunks returns the underlying chunk list in arrival order.
func (ch *Chain) Chunks() [][]byte { return ch.chunks }

// Bytes flattens the chain into a single contiguous copy. Intended for
// parsers and tests; the hot path iterates Chunks instead.
func (ch *Chain) Bytes() []byte {
	out := make([]byte, 0, ch.size)
	for _, c := range ch.chunks {
		out = append(out, c...)
	}
	return out
}

// Reset drops all chunk references.
func (ch *Chain) Reset() {
	ch.chunks = nil
	ch.size = 0
}

// Msg is a protocol message under accumulation or ready to send. Protocol
// modules allocate it through their AllocMsg hook and may embed it into a
// larger protocol-specific message object.
type Msg struct {
	Chain Chain
}
