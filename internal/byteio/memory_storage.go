package byteio

import (
	"bytes"
	"sync"
	"time"

	"github.com/go-pwsafe/pwsafe/internal/common"
)

// MemoryStorage is a byte-slice-backed Storage, used by tests and by
// callers that want to stage a database entirely in memory before flushing
// it somewhere durable.
type MemoryStorage struct {
	mu       sync.Mutex
	data     []byte
	modified time.Time
	exists   bool
}

// NewMemoryStorage returns an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{modified: time.Now()}
}

// NewMemoryStorageFromBytes seeds storage with existing content, as if it
// had already been written once.
func NewMemoryStorageFromBytes(data []byte) *MemoryStorage {
	return &MemoryStorage{data: append([]byte{}, data...), modified: time.Now(), exists: true}
}

func (s *MemoryStorage) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exists
}

func (s *MemoryStorage) IsWritable() bool { return true }

func (s *MemoryStorage) LastModified() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modified, nil
}

// Bytes returns a copy of the current contents, for tests that inspect the
// written stream directly.
func (s *MemoryStorage) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte{}, s.data...)
}

func (s *MemoryStorage) OpenForRead() (ReadStream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists {
		return nil, common.ErrEndOfFile
	}
	return &memoryReadStream{r: bytes.NewReader(s.data)}, nil
}

func (s *MemoryStorage) OpenForWrite() (WriteStream, error) {
	return &memoryWriteStream{storage: s}, nil
}

type memoryReadStream struct {
	r *bytes.Reader
}

func (r *memoryReadStream) ReadExact(buf []byte) error {
	return ReadExact(r.r, buf)
}

func (r *memoryReadStream) Close() error { return nil }

type memoryWriteStream struct {
	storage *MemoryStorage
	buf     bytes.Buffer
}

func (w *memoryWriteStream) WriteAll(buf []byte) error {
	return WriteAll(&w.buf, buf)
}

func (w *memoryWriteStream) Close() error {
	w.storage.mu.Lock()
	defer w.storage.mu.Unlock()
	w.storage.data = append([]byte{}, w.buf.Bytes()...)
	w.storage.modified = time.Now()
	w.storage.exists = true
	return nil
}
