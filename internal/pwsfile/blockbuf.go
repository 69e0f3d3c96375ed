package pwsfile

import "github.com/go-pwsafe/pwsafe/internal/common"

// bufferBlockReader walks a plaintext buffer one fixed-size block at a
// time, satisfying field.BlockReader. V3's record stream is decrypted in
// one shot (its length is only known once the trailing EOF marker and
// HMAC have been located), so the field codec reads blocks off this
// buffer rather than off a live cipher stream.
type bufferBlockReader struct {
	buf      []byte
	pos      int
	blockLen int
}

func newBufferBlockReader(buf []byte, blockLen int) *bufferBlockReader {
	return &bufferBlockReader{buf: buf, blockLen: blockLen}
}

func (r *bufferBlockReader) ReadBlock() ([]byte, error) {
	if r.pos >= len(r.buf) {
		return nil, common.ErrEndOfFile
	}
	if r.pos+r.blockLen > len(r.buf) {
		return nil, common.ErrTruncated
	}
	blk := r.buf[r.pos : r.pos+r.blockLen]
	r.pos += r.blockLen
	return blk, nil
}

// done reports whether the buffer has been fully consumed.
func (r *bufferBlockReader) done() bool {
	return r.pos >= len(r.buf)
}

// bufferBlockWriter is the save-time counterpart, accumulating plaintext
// blocks into a growing buffer for V3's single-shot CBC encryption.
type bufferBlockWriter struct {
	buf      []byte
	blockLen int
}

func (w *bufferBlockWriter) WriteBlock(blk []byte) error {
	if len(blk) != w.blockLen {
		panic("pwsfile: block write length mismatch")
	}
	w.buf = append(w.buf, blk...)
	return nil
}
