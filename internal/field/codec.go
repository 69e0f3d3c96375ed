package field

import (
	"encoding/binary"
	"fmt"

	"github.com/go-pwsafe/pwsafe/internal/common"
)

// BlockReader and BlockWriter are the decrypted-block-stream primitives the
// field codec consumes. They are satisfied by the block-chained cipher
// reader/writer in the pwsfile package: every Read/Write call moves exactly
// one block of plaintext, already decrypted/about to be encrypted by the
// record-layer cipher.
type BlockReader interface {
	ReadBlock() ([]byte, error)
}

type BlockWriter interface {
	WriteBlock([]byte) error
}

// blockLengthV12 and blockLengthV3 mirror the constants in internal/common;
// repeated here as ints for arithmetic convenience.
const (
	blockLengthV12 = common.BlockLengthV12
	blockLengthV3  = common.BlockLengthV3
)

// DecodeV1V2 reads one field using the V1/V2 wire unit: 4-byte LE length,
// 4-byte LE type, then ceil(length/BLOCK_LENGTH)*BLOCK_LENGTH bytes of
// payload (at least one block, even for a zero-length field).
func DecodeV1V2(version Version, r BlockReader) (Field, error) {
	header, err := r.ReadBlock()
	if err != nil {
		return Field{}, err
	}
	if len(header) != blockLengthV12 {
		return Field{}, fmt.Errorf("field: V1/V2 header block must be %d bytes, got %d", blockLengthV12, len(header))
	}
	length := binary.LittleEndian.Uint32(header[0:4])
	id := TypeID(binary.LittleEndian.Uint32(header[4:8]))

	blocks := numBlocks(int(length), blockLengthV12)
	payload := make([]byte, 0, blocks*blockLengthV12)
	for i := 0; i < blocks; i++ {
		blk, err := r.ReadBlock()
		if err != nil {
			return Field{}, err
		}
		payload = append(payload, blk...)
	}
	payload = payload[:length]

	return decodeField(version, id, payload), nil
}

// EncodeV1V2 writes one field using the V1/V2 wire unit.
func EncodeV1V2(w BlockWriter, f Field) error {
	payload := f.Payload()
	header := make([]byte, blockLengthV12)
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[4:8], uint32(f.ID))
	if err := w.WriteBlock(header); err != nil {
		return err
	}

	padded := padTo(payload, blockLengthV12)
	for off := 0; off < len(padded); off += blockLengthV12 {
		if err := w.WriteBlock(padded[off : off+blockLengthV12]); err != nil {
			return err
		}
	}
	return nil
}

// DecodeV3 reads one field using the V3 wire unit: a 5-byte header (4-byte
// LE length, 1-byte type) packed into the first 16-byte block alongside up
// to 11 bytes of payload, followed by as many additional 16-byte blocks as
// needed to carry the remainder of length.
func DecodeV3(r BlockReader) (Field, error) {
	first, err := r.ReadBlock()
	if err != nil {
		return Field{}, err
	}
	if len(first) != blockLengthV3 {
		return Field{}, fmt.Errorf("field: V3 block must be %d bytes, got %d", blockLengthV3, len(first))
	}
	length := binary.LittleEndian.Uint32(first[0:4])
	id := TypeID(first[4])

	payload := make([]byte, 0, length)
	inFirstBlock := int(length)
	if inFirstBlock > 11 {
		inFirstBlock = 11
	}
	payload = append(payload, first[5:5+inFirstBlock]...)

	remaining := int(length) - inFirstBlock
	blocks := numBlocksV3(remaining, blockLengthV3)
	for i := 0; i < blocks; i++ {
		blk, err := r.ReadBlock()
		if err != nil {
			return Field{}, err
		}
		payload = append(payload, blk...)
	}
	payload = payload[:length]

	return decodeField(V3, id, payload), nil
}

// EncodeV3 writes one field using the V3 wire unit.
func EncodeV3(w BlockWriter, f Field) error {
	payload := f.Payload()

	first := make([]byte, blockLengthV3)
	binary.LittleEndian.PutUint32(first[0:4], uint32(len(payload)))
	first[4] = byte(f.ID)

	inFirstBlock := len(payload)
	if inFirstBlock > 11 {
		inFirstBlock = 11
	}
	copy(first[5:5+inFirstBlock], payload[:inFirstBlock])
	if err := w.WriteBlock(first); err != nil {
		return err
	}

	rest := payload[inFirstBlock:]
	padded := padToV3(rest, blockLengthV3)
	for off := 0; off < len(padded); off += blockLengthV3 {
		if err := w.WriteBlock(padded[off : off+blockLengthV3]); err != nil {
			return err
		}
	}
	return nil
}

// EndOfRecord builds the type-0xFF terminator field used by V2 and V3.
func EndOfRecord() Field {
	return Field{ID: IDEndOfRecord, Kind: KindBytes}
}

// numBlocks computes the V1/V2 block count for a payload of length n: at
// least one block even when n is zero, since V1/V2 always consumes a
// payload block per field.
func numBlocks(n, blockLength int) int {
	if n <= 0 {
		return 1
	}
	return (n + blockLength - 1) / blockLength
}

func padTo(b []byte, blockLength int) []byte {
	if len(b) == 0 {
		return make([]byte, blockLength)
	}
	rounded := numBlocks(len(b), blockLength) * blockLength
	out := make([]byte, rounded)
	copy(out, b)
	return out
}

// numBlocksV3 computes the number of continuation blocks beyond the first
// 16-byte block for a V3 field: zero when the remainder is empty (payload
// fit entirely in the 11 payload bytes of the first block), since V3 has
// no "always at least one block" rule.
func numBlocksV3(remaining, blockLength int) int {
	if remaining <= 0 {
		return 0
	}
	return (remaining + blockLength - 1) / blockLength
}

func padToV3(b []byte, blockLength int) []byte {
	if len(b) == 0 {
		return nil
	}
	rounded := numBlocksV3(len(b), blockLength) * blockLength
	out := make([]byte, rounded)
	copy(out, b)
	return out
}
