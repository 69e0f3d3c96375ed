// Package byteio wraps an abstract storage backend with the streaming
// read/write semantics the file codec needs: exact-length reads, all-or-
// nothing writes, and block-aligned buffer allocation.
package byteio

import (
	"io"
	"time"

	"github.com/go-pwsafe/pwsafe/internal/common"
)

// Storage is an openable byte sink/source. Implementations must report
// LastModified with enough precision to detect a concurrent external write
// between a file's Open and Save.
type Storage interface {
	OpenForRead() (ReadStream, error)
	OpenForWrite() (WriteStream, error)
	LastModified() (time.Time, error)
	Exists() bool
	IsWritable() bool
}

// ReadStream is a streaming source consumed one exact-length buffer at a
// time. Callers allocate buffers with AllocateBuffer and fill them with
// ReadExact.
type ReadStream interface {
	io.Closer
	ReadExact(buf []byte) error
}

// WriteStream is a streaming sink written one all-or-nothing buffer at a
// time via WriteAll.
type WriteStream interface {
	io.Closer
	WriteAll(buf []byte) error
}

// AllocateBuffer rounds n up to a non-zero multiple of blockLength (0 maps
// to blockLength) and returns a freshly allocated buffer of that size.
// It rejects a negative n.
func AllocateBuffer(n, blockLength int) ([]byte, error) {
	if n < 0 {
		return nil, common.ErrIndexOutOfRange
	}
	if blockLength <= 0 {
		panic("byteio: blockLength must be positive")
	}
	if n == 0 {
		return make([]byte, blockLength), nil
	}
	rounded := ((n + blockLength - 1) / blockLength) * blockLength
	return make([]byte, rounded), nil
}

// ReadExact fills buf completely from r, applying the EndOfFile/Truncated
// semantics the file codec relies on: a read that sees zero bytes before
// any data is a clean EndOfFile, while a read that sees some but not all of
// buf is a Truncated file.
func ReadExact(r io.Reader, buf []byte) error {
	n, err := io.ReadFull(r, buf)
	switch {
	case err == io.EOF && n == 0:
		return common.ErrEndOfFile
	case err == io.ErrUnexpectedEOF, err == io.EOF:
		return common.ErrTruncated
	case err != nil:
		return err
	}
	return nil
}

// WriteAll writes buf to w in full, surfacing any short write as an error
// rather than letting it pass silently.
func WriteAll(w io.Writer, buf []byte) error {
	n, err := w.Write(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return common.ErrTruncated
	}
	return nil
}
