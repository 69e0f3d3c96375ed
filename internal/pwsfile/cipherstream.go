package pwsfile

import (
	"crypto/cipher"
	"fmt"

	"github.com/go-pwsafe/pwsafe/internal/byteio"
)

// blockStreamReader decrypts one cipher block at a time off an underlying
// byteio.ReadStream, handing each plaintext block to the field codec. It
// serves the V1/V2 record stream: V1 decrypts with ECB, V2 chains with
// CBC. V3 is decrypted in bulk instead (see openV3). It can tee every
// plaintext block through an optional MAC; the file codec leaves it unset.
type blockStreamReader struct {
	stream    byteio.ReadStream
	block     cipher.Block
	prevBlock []byte // CBC chaining state; nil for ECB (V1).
	blockLen  int
	mac       interface{ Write([]byte) (int, error) }
}

func newBlockStreamReader(stream byteio.ReadStream, block cipher.Block, iv []byte, blockLen int) *blockStreamReader {
	r := &blockStreamReader{stream: stream, block: block, blockLen: blockLen}
	if iv != nil {
		r.prevBlock = append([]byte{}, iv...)
	}
	return r
}

// ReadBlock satisfies field.BlockReader.
func (r *blockStreamReader) ReadBlock() ([]byte, error) {
	ciphertext, err := byteio.AllocateBuffer(r.blockLen, r.blockLen)
	if err != nil {
		return nil, err
	}
	if err := r.stream.ReadExact(ciphertext); err != nil {
		return nil, err
	}

	plaintext := make([]byte, r.blockLen)
	if r.prevBlock == nil {
		r.block.Decrypt(plaintext, ciphertext)
	} else {
		r.block.Decrypt(plaintext, ciphertext)
		xorInPlace(plaintext, r.prevBlock)
		r.prevBlock = ciphertext
	}

	if r.mac != nil {
		_, _ = r.mac.Write(plaintext)
	}
	return plaintext, nil
}

// blockStreamWriter is the save-time counterpart of blockStreamReader.
type blockStreamWriter struct {
	stream    byteio.WriteStream
	block     cipher.Block
	prevBlock []byte
	blockLen  int
	mac       interface{ Write([]byte) (int, error) }
}

func newBlockStreamWriter(stream byteio.WriteStream, block cipher.Block, iv []byte, blockLen int) *blockStreamWriter {
	w := &blockStreamWriter{stream: stream, block: block, blockLen: blockLen}
	if iv != nil {
		w.prevBlock = append([]byte{}, iv...)
	}
	return w
}

// WriteBlock satisfies field.BlockWriter.
func (w *blockStreamWriter) WriteBlock(plaintext []byte) error {
	if len(plaintext) != w.blockLen {
		return fmt.Errorf("pwsfile: block write length %d != %d", len(plaintext), w.blockLen)
	}
	if w.mac != nil {
		_, _ = w.mac.Write(plaintext)
	}

	ciphertext := make([]byte, w.blockLen)
	if w.prevBlock == nil {
		w.block.Encrypt(ciphertext, plaintext)
	} else {
		chained := make([]byte, w.blockLen)
		xorBytes(chained, plaintext, w.prevBlock)
		w.block.Encrypt(ciphertext, chained)
		w.prevBlock = ciphertext
	}
	return w.stream.WriteAll(ciphertext)
}

func xorInPlace(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

func xorBytes(dst, a, b []byte) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}
