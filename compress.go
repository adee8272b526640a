package fastscope

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/valyala/bytebufferpool"
)

const (
	// DefaultCompressThreshold is the minimum size of a flat scope payload
	// compressed by a ScopeCodec with Compress enabled.
	DefaultCompressThreshold = 256

	// DefaultMaxDecompressedSize limits the inflated size of a compressed
	// scope payload.
	DefaultMaxDecompressedSize = 64 * 1024
)

// compressedScopePrefix starts compressed payloads.
// appendQuotedArg always escapes it, so plain payloads never start with it.
const compressedScopePrefix = '~'

var errScopeTooLarge = errors.New("decompressed scope exceeds the size limit")

var (
	flateWriterPool sync.Pool
	flateReaderPool sync.Pool
)

func acquireFlateWriter(w io.Writer) *flate.Writer {
	v := flateWriterPool.Get()
	if v == nil {
		zw, err := flate.NewWriter(w, flate.BestCompression)
		if err != nil {
			panic(fmt.Sprintf("BUG: unexpected error from flate.NewWriter: %v", err))
		}
		return zw
	}
	zw := v.(*flate.Writer)
	zw.Reset(w)
	return zw
}

func releaseFlateWriter(zw *flate.Writer) {
	flateWriterPool.Put(zw)
}

func acquireFlateReader(r io.Reader) (io.ReadCloser, error) {
	v := flateReaderPool.Get()
	if v == nil {
		return flate.NewReader(r), nil
	}
	zr := v.(io.ReadCloser)
	if err := zr.(flate.Resetter).Reset(r, nil); err != nil {
		return nil, err
	}
	return zr, nil
}

func releaseFlateReader(zr io.ReadCloser) {
	zr.Close()
	flateReaderPool.Put(zr)
}

// appendCompressedScope appends the prefixed, deflated and base64url encoded
// flat payload to dst.
func appendCompressedScope(dst, flat []byte) ([]byte, error) {
	buf := AcquireByteBuffer()
	defer ReleaseByteBuffer(buf)

	zw := acquireFlateWriter(buf)
	_, err := zw.Write(flat)
	if err == nil {
		err = zw.Close()
	}
	releaseFlateWriter(zw)
	if err != nil {
		return dst, err
	}

	dst = append(dst, compressedScopePrefix)
	return base64.RawURLEncoding.AppendEncode(dst, buf.B), nil
}

// inflateScope appends the flat payload encoded in src to dst.
// src must not contain compressedScopePrefix.
func inflateScope(dst, src []byte, maxSize int) ([]byte, error) {
	raw := AcquireByteBuffer()
	defer ReleaseByteBuffer(raw)

	var err error
	raw.B, err = base64.RawURLEncoding.AppendDecode(raw.B[:0], src)
	if err != nil {
		return dst, fmt.Errorf("cannot decode compressed scope: %w", err)
	}

	zr, err := acquireFlateReader(bytes.NewReader(raw.B))
	if err != nil {
		return dst, fmt.Errorf("cannot inflate scope: %w", err)
	}
	out := bytebufferpool.ByteBuffer{B: dst}
	n, err := out.ReadFrom(io.LimitReader(zr, int64(maxSize)+1))
	releaseFlateReader(zr)
	if err != nil {
		return dst, fmt.Errorf("cannot inflate scope: %w", err)
	}
	if n > int64(maxSize) {
		return dst, fmt.Errorf("%w: more than %d bytes", errScopeTooLarge, maxSize)
	}
	return out.B, nil
}
