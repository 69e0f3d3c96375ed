package pwsfile

import (
	"context"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/go-pwsafe/pwsafe/internal/byteio"
	"github.com/go-pwsafe/pwsafe/internal/common"
	"github.com/go-pwsafe/pwsafe/internal/cryptox"
	"github.com/go-pwsafe/pwsafe/internal/field"
)

// Save rewrites the database: fresh header material, every sealed record
// unsealed and re-serialized in canonical field order, re-encrypted, and
// flushed. It follows spec §4.5's save sequence, including the optional
// concurrent-modification check against the storage's last-modified time.
func (f *File) Save(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkNotDisposed(); err != nil {
		return err
	}
	if f.readOnly {
		return common.ErrReadOnly
	}
	if f.state != stateDirty && f.state != stateLoaded {
		return fmt.Errorf("pwsfile: save called before open")
	}

	if !f.lastStorageChange.IsZero() {
		if ts, err := f.storage.LastModified(); err == nil && ts.After(f.lastStorageChange) {
			return common.ErrConcurrentModification
		}
	}

	passphrase, err := f.cage.UnsealPassphrase(ctx, f.sealedPassphrase)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	stream, err := f.storage.OpenForWrite()
	if err != nil {
		return fmt.Errorf("pwsfile: open storage for write: %w", err)
	}

	var saveErr error
	switch f.version {
	case field.V1, field.V2:
		saveErr = f.saveV1V2(ctx, stream, passphrase)
	case field.V3:
		saveErr = f.saveV3(ctx, stream, passphrase)
	default:
		saveErr = common.ErrUnsupportedFileVersion
	}

	closeErr := stream.Close()
	if saveErr != nil {
		return saveErr
	}
	if closeErr != nil {
		return fmt.Errorf("pwsfile: close storage after write: %w", closeErr)
	}

	if ts, err := f.storage.LastModified(); err == nil {
		f.lastStorageChange = ts
	}
	f.state = stateLoaded
	return nil
}

func (f *File) saveV1V2(ctx context.Context, stream byteio.WriteStream, passphrase []byte) error {
	h := &headerV1V2{}
	cryptox.FillRandom(h.RandStuff[:])
	cryptox.FillRandom(h.Salt[:])
	if f.version == field.V2 {
		cryptox.FillRandom(h.IV[:])
	}

	key := cryptox.StretchV1V2Key(passphrase, h.Salt[:])
	block, err := cryptox.NewBlowfishCipher(key)
	if err != nil {
		return common.ErrCryptoInit
	}
	h.RandHash = randHash(block, h.RandStuff)

	buf := make([]byte, 0, 8+20+20+8)
	buf = append(buf, h.RandStuff[:]...)
	buf = append(buf, h.RandHash[:]...)
	buf = append(buf, h.Salt[:]...)
	buf = append(buf, h.IV[:]...)
	if err := stream.WriteAll(buf); err != nil {
		return err
	}

	var iv []byte
	if f.version == field.V2 {
		iv = h.IV[:]
	}
	writer := newBlockStreamWriter(stream, block, iv, common.BlockLengthV12)

	for _, sealed := range f.sealed {
		r, err := f.cage.UnsealRecord(ctx, sealed)
		if err != nil {
			return err
		}
		for _, fld := range r.CanonicalOrder() {
			if err := field.EncodeV1V2(writer, fld); err != nil {
				return err
			}
		}
		if f.version == field.V2 {
			if err := field.EncodeV1V2(writer, field.EndOfRecord()); err != nil {
				return err
			}
		}
	}

	f.headerV1V2 = h
	return nil
}

func (f *File) saveV3(ctx context.Context, stream byteio.WriteStream, passphrase []byte) error {
	h := &headerV3{}
	cryptox.FillRandom(h.Salt[:])
	h.Iterations = f.iterationsOrDefault()

	stretched := cryptox.StretchV3Key(passphrase, h.Salt[:], h.Iterations)
	h.StretchedKeyHash = sha256.Sum256(stretched[:])

	var encKey, hmacKey [32]byte
	cryptox.FillRandom(encKey[:])
	cryptox.FillRandom(hmacKey[:])
	b1, b2, b3, b4, err := cryptox.WrapKeyBlocks(stretched[:], encKey, hmacKey)
	if err != nil {
		return fmt.Errorf("pwsfile: wrap v3 key blocks: %w", err)
	}
	h.B1, h.B2, h.B3, h.B4 = b1, b2, b3, b4
	cryptox.FillRandom(h.IV[:])

	headerBytes := make([]byte, 0, 4+32+4+32+16*4+16)
	headerBytes = append(headerBytes, v3Magic...)
	headerBytes = append(headerBytes, h.Salt[:]...)
	headerBytes = binary.LittleEndian.AppendUint32(headerBytes, h.Iterations)
	headerBytes = append(headerBytes, h.StretchedKeyHash[:]...)
	headerBytes = append(headerBytes, h.B1[:]...)
	headerBytes = append(headerBytes, h.B2[:]...)
	headerBytes = append(headerBytes, h.B3[:]...)
	headerBytes = append(headerBytes, h.B4[:]...)
	headerBytes = append(headerBytes, h.IV[:]...)
	if err := stream.WriteAll(headerBytes); err != nil {
		return err
	}

	bw := &bufferBlockWriter{blockLen: common.BlockLengthV3}
	mac := cryptox.NewHMACSHA256(hmacKey[:])
	for _, sealed := range f.sealed {
		r, err := f.cage.UnsealRecord(ctx, sealed)
		if err != nil {
			return err
		}
		for _, fld := range r.CanonicalOrder() {
			mac.Write(fld.Payload())
			if err := field.EncodeV3(bw, fld); err != nil {
				return err
			}
		}
		term := field.EndOfRecord()
		mac.Write(term.Payload())
		if err := field.EncodeV3(bw, term); err != nil {
			return err
		}
	}

	block, err := cryptox.NewTwofishCipher(encKey[:])
	if err != nil {
		return common.ErrCryptoInit
	}
	ciphertext := make([]byte, len(bw.buf))
	if len(bw.buf) > 0 {
		cipher.NewCBCEncrypter(block, h.IV[:]).CryptBlocks(ciphertext, bw.buf)
	}
	if err := stream.WriteAll(ciphertext); err != nil {
		return err
	}
	if err := stream.WriteAll([]byte(v3EOFMarker)); err != nil {
		return err
	}
	if err := stream.WriteAll(mac.Sum(nil)); err != nil {
		return err
	}

	f.headerV3 = h
	f.encKey = encKey
	f.hmacKey = hmacKey
	return nil
}

// iterationsOrDefault preserves the previous header's stretch-iteration
// count across a re-save, or picks a sane default for a brand-new file.
func (f *File) iterationsOrDefault() uint32 {
	if f.headerV3 != nil && f.headerV3.Iterations > 0 {
		return f.headerV3.Iterations
	}
	return 2048
}
