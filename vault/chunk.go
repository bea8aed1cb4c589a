// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import "encoding/binary"

// Chunk is one tagged record from the vault blob: a 4-byte ASCII tag
// followed by a u32 big-endian length and that many payload bytes.
type Chunk struct {
	Tag     string
	Payload []byte
}

// MarkLocal appends the marker chunk that flags a blob as coming from the
// local cache rather than the server. Parse reports it via Vault.Local.
func MarkLocal(raw []byte) []byte {
	out := make([]byte, 0, len(raw)+8)
	out = append(out, raw...)
	out = append(out, tagLocal...)
	return binary.BigEndian.AppendUint32(out, 0)
}

// ChunkReader walks a vault blob chunk by chunk. A blob that ends partway
// through a header or payload is treated as cleanly finished; servers
// routinely pad or truncate the tail and the data before the cut is still
// valid.
type ChunkReader struct {
	buf []byte
	pos int
}

func NewChunkReader(buf []byte) *ChunkReader {
	return &ChunkReader{buf: buf}
}

// Next returns the next complete chunk, or ok=false once no complete chunk
// remains. The payload aliases the underlying buffer.
func (r *ChunkReader) Next() (Chunk, bool) {
	if r.pos+8 > len(r.buf) {
		r.pos = len(r.buf)
		return Chunk{}, false
	}
	tag := r.buf[r.pos : r.pos+4]
	size := binary.BigEndian.Uint32(r.buf[r.pos+4 : r.pos+8])
	start := r.pos + 8
	if start+int(size) > len(r.buf) {
		r.pos = len(r.buf)
		return Chunk{}, false
	}
	r.pos = start + int(size)
	return Chunk{Tag: string(tag), Payload: r.buf[start : start+int(size)]}, true
}
