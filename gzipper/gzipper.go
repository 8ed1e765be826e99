// Package gzipper is a streaming gzip codec with bounded memory use.
// Compression processes input in 128 KiB chunks and writes a self-describing
// gzip container, so the output can be decompressed by any gzip-compatible
// tool without extra metadata. Decompression auto-detects gzip or bare zlib
// input and works in 1 MiB chunks.
package gzipper

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// DefaultLevel is the compression level used by the rotation subsystem.
// It balances speed against ratio; pass gzip.BestCompression for smaller output.
const DefaultLevel = 6

// Chunk sizes bounding memory regardless of input size.
const (
	compressChunk   = 128 * 1024
	decompressChunk = 1024 * 1024
)

// Decompressed output is usually about 3.1x the compressed input
// (level-9 gzip averages a 32% ratio). Used only to pre-size buffers.
const growthHint = 3

// ErrShortInput is returned when decompression input is too small to
// carry any compressed container.
var ErrShortInput = errors.New("input too short to be compressed data")

// Compress reads src in bounded chunks and writes a gzip stream to dst.
// An out-of-range level falls back to the gzip default. Any read or write
// failure aborts the stream and is returned after codec resources are
// released; dst may then contain a partial stream the caller should discard.
func Compress(src io.Reader, dst io.Writer, level int) error {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}

	zw, err := gzip.NewWriterLevel(dst, level)
	if err != nil {
		return fmt.Errorf("starting compressor: %w", err)
	}

	buf := make([]byte, compressChunk)

	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := zw.Write(buf[:n]); werr != nil {
				zw.Close()

				return fmt.Errorf("writing compressed data: %w", werr)
			}
		}

		if errors.Is(rerr, io.EOF) {
			break
		}

		if rerr != nil {
			zw.Close()

			return fmt.Errorf("reading source data: %w", rerr)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing compressed stream: %w", err)
	}

	return nil
}

// CompressBytes compresses an in-memory buffer.
// Empty input yields empty output and no error.
func CompressBytes(data []byte, level int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var out bytes.Buffer

	out.Grow(len(data))

	if err := Compress(bytes.NewReader(data), &out, level); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// Decompress inflates an in-memory gzip or zlib buffer, detecting the
// container format from the input bytes. Empty input yields empty output
// and no error. Malformed input returns an error and no partial output.
// The output buffer is pre-sized to an estimate of the inflated size; the
// estimate is a performance hint only and larger output grows the buffer.
func Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	zr, err := newReader(data)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var (
		out = bytes.NewBuffer(make([]byte, 0, len(data)*growthHint))
		buf = make([]byte, decompressChunk)
	)

	for {
		n, rerr := zr.Read(buf)
		if n > 0 {
			out.Write(buf[:n])
		}

		if errors.Is(rerr, io.EOF) {
			break
		}

		if rerr != nil {
			return nil, fmt.Errorf("inflating data: %w", rerr)
		}
	}

	return out.Bytes(), nil
}

// newReader picks the inflater matching the container found in data.
func newReader(data []byte) (io.ReadCloser, error) {
	const (
		gzipMagic1 = 0x1f
		gzipMagic2 = 0x8b
		headerLen  = 2
	)

	if len(data) < headerLen {
		return nil, ErrShortInput
	}

	if data[0] == gzipMagic1 && data[1] == gzipMagic2 {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("reading gzip header: %w", err)
		}

		return zr, nil
	}

	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading zlib header: %w", err)
	}

	return zr, nil
}
