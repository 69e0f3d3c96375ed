package pwsfile

import (
	"context"
	"crypto/cipher"
	"crypto/hmac"
	"errors"
	"fmt"

	"github.com/go-pwsafe/pwsafe/internal/byteio"
	"github.com/go-pwsafe/pwsafe/internal/common"
	"github.com/go-pwsafe/pwsafe/internal/cryptox"
	"github.com/go-pwsafe/pwsafe/internal/field"
	"github.com/go-pwsafe/pwsafe/internal/record"
)

// Open authenticates passphrase against storage's header, then streams and
// seals every record. It follows the sequence in spec §4.5: header parse,
// authentication, passphrase sealing, record loop, clean-EOF termination.
// A truncated final block surfaces as ErrCorruptFile.
func (f *File) Open(ctx context.Context, passphrase []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkNotDisposed(); err != nil {
		return err
	}
	if f.state != stateEmpty {
		return fmt.Errorf("pwsfile: open called on a non-empty handle")
	}

	stream, err := f.storage.OpenForRead()
	if errors.Is(err, common.ErrEndOfFile) {
		return common.ErrCorruptFile
	}
	if err != nil {
		return fmt.Errorf("pwsfile: open storage for read: %w", err)
	}
	defer stream.Close()

	switch f.version {
	case field.V1, field.V2:
		if err := f.openV1V2(ctx, stream, passphrase); err != nil {
			return err
		}
	case field.V3:
		if err := f.openV3(ctx, stream, passphrase); err != nil {
			return err
		}
	default:
		return common.ErrUnsupportedFileVersion
	}

	sealedPass, err := f.cage.SealPassphrase(ctx, passphrase)
	if err != nil {
		return err
	}
	f.sealedPassphrase = sealedPass

	if ts, err := f.storage.LastModified(); err == nil {
		f.lastStorageChange = ts
	}

	f.state = stateLoaded
	return nil
}

func (f *File) openV1V2(ctx context.Context, stream byteio.ReadStream, passphrase []byte) error {
	h := &headerV1V2{}
	buf := make([]byte, 8+20+20+8)
	if err := stream.ReadExact(buf); err != nil {
		if errors.Is(err, common.ErrEndOfFile) {
			return common.ErrCorruptFile
		}
		return err
	}
	copy(h.RandStuff[:], buf[0:8])
	copy(h.RandHash[:], buf[8:28])
	copy(h.Salt[:], buf[28:48])
	copy(h.IV[:], buf[48:56])

	block, err := deriveV1V2(passphrase, h)
	if err != nil {
		return err
	}
	f.headerV1V2 = h

	var iv []byte
	if f.version == field.V2 {
		iv = h.IV[:]
	}
	reader := newBlockStreamReader(stream, block, iv, common.BlockLengthV12)

	return f.readRecordsV1V2(ctx, reader)
}

func (f *File) readRecordsV1V2(ctx context.Context, reader *blockStreamReader) error {
	for {
		r := record.New(f.version)
		sawAny := false
		for {
			fld, err := field.DecodeV1V2(f.version, reader)
			if err != nil {
				if errors.Is(err, common.ErrEndOfFile) {
					if !sawAny {
						return nil
					}
					return common.ErrCorruptFile
				}
				if errors.Is(err, common.ErrTruncated) {
					return common.ErrCorruptFile
				}
				return err
			}
			sawAny = true

			if f.version == field.V2 && fld.ID == field.IDEndOfRecord {
				break
			}
			r.Set(fld)

			if f.version == field.V1 && v1RecordComplete(r) {
				break
			}
		}

		if err := f.sealAndNotify(ctx, r); err != nil {
			return err
		}
	}
}

// v1RecordComplete reports whether r has seen all of V1's fixed field set,
// the only boundary V1 offers since it has no END_OF_RECORD marker.
func v1RecordComplete(r *record.Record) bool {
	ids := []field.TypeID{field.IDTitle, field.IDUsername, field.IDNotes, field.IDPassword}
	for _, id := range ids {
		if _, ok := r.Get(id); !ok {
			return false
		}
	}
	return true
}

func (f *File) sealAndNotify(ctx context.Context, r *record.Record) error {
	sealed, err := f.cage.SealRecord(ctx, r)
	if err != nil {
		return err
	}
	f.sealed = append(f.sealed, sealed)
	f.notifyLoaded(r)
	return nil
}

// openV3 parses the cleartext header, derives the record/HMAC keys, then
// reads the remainder of the stream in bulk: the final 48 bytes are the
// literal EOF marker plus the trailing HMAC (both cleartext), and
// everything before that is CBC-Twofish ciphertext covering the record
// stream. Bulk decryption (rather than block-at-a-time streaming) is
// required because that boundary is only knowable once the full stream
// has been read.
func (f *File) openV3(ctx context.Context, stream byteio.ReadStream, passphrase []byte) error {
	tag := make([]byte, 4)
	if err := stream.ReadExact(tag); err != nil {
		if errors.Is(err, common.ErrEndOfFile) {
			return common.ErrCorruptFile
		}
		return err
	}
	if string(tag) != v3Magic {
		return common.ErrUnsupportedFileVersion
	}

	h := &headerV3{}
	rest := make([]byte, 32+4+32+16*4+16)
	if err := stream.ReadExact(rest); err != nil {
		return common.ErrCorruptFile
	}
	off := 0
	copy(h.Salt[:], rest[off:off+32])
	off += 32
	h.Iterations = leUint32(rest[off : off+4])
	off += 4
	copy(h.StretchedKeyHash[:], rest[off:off+32])
	off += 32
	copy(h.B1[:], rest[off:off+16])
	off += 16
	copy(h.B2[:], rest[off:off+16])
	off += 16
	copy(h.B3[:], rest[off:off+16])
	off += 16
	copy(h.B4[:], rest[off:off+16])
	off += 16
	copy(h.IV[:], rest[off:off+16])

	encKey, hmacKey, err := deriveV3(passphrase, h)
	if err != nil {
		return err
	}

	tail, err := slurpRemaining(stream, common.BlockLengthV3)
	if errors.Is(err, common.ErrTruncated) {
		return common.ErrCorruptFile
	}
	if err != nil {
		return err
	}
	if len(tail) < len(v3EOFMarker)+32 {
		return common.ErrCorruptFile
	}
	trailerStart := len(tail) - len(v3EOFMarker) - 32
	ciphertext := tail[:trailerStart]
	eofMarker := tail[trailerStart : trailerStart+len(v3EOFMarker)]
	storedHMAC := tail[trailerStart+len(v3EOFMarker):]

	if string(eofMarker) != v3EOFMarker {
		return common.ErrCorruptFile
	}
	if len(ciphertext)%common.BlockLengthV3 != 0 {
		return common.ErrCorruptFile
	}

	block, err := cryptox.NewTwofishCipher(encKey[:])
	if err != nil {
		return common.ErrCryptoInit
	}
	plaintext := make([]byte, len(ciphertext))
	if len(ciphertext) > 0 {
		cipher.NewCBCDecrypter(block, h.IV[:]).CryptBlocks(plaintext, ciphertext)
	}

	mac := cryptox.NewHMACSHA256(hmacKey[:])
	if err := f.readRecordsV3(ctx, plaintext, mac); err != nil {
		return err
	}

	if !hmac.Equal(mac.Sum(nil), storedHMAC) {
		return common.ErrCorruptFile
	}

	f.headerV3 = h
	f.encKey = encKey
	f.hmacKey = hmacKey
	return nil
}

func (f *File) readRecordsV3(ctx context.Context, plaintext []byte, mac interface{ Write([]byte) (int, error) }) error {
	reader := newBufferBlockReader(plaintext, common.BlockLengthV3)
	for !reader.done() {
		r := record.New(field.V3)
		for {
			fld, err := field.DecodeV3(reader)
			if err != nil {
				return common.ErrCorruptFile
			}
			// Per the V3 spec, the HMAC covers field payloads only, never
			// the type/length header bytes.
			_, _ = mac.Write(fld.Payload())
			if fld.ID == field.IDEndOfRecord {
				break
			}
			r.Set(fld)
		}
		if err := f.sealAndNotify(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// slurpRemaining reads every remaining byte off stream, blockLen bytes at
// a time, until a clean EndOfFile. Used only where the record boundary
// cannot be determined without the full stream in hand (V3's CBC window).
func slurpRemaining(stream byteio.ReadStream, blockLen int) ([]byte, error) {
	var out []byte
	buf := make([]byte, blockLen)
	for {
		err := stream.ReadExact(buf)
		if errors.Is(err, common.ErrEndOfFile) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, buf...)
	}
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
