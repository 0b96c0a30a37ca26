// Package compress produces reproducible pre-compressed copies of assets.
//
// Every encoder here is configured so that its output depends only on the
// input bytes: no timestamps, no file names, no concurrency-dependent block
// splitting. Building twice from the same sources yields byte-identical
// blobs.
package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var ErrUnknownEncoding = errors.New("compress: unknown encoding")

// Encoding identifies a content encoding as used in the HTTP
// Content-Encoding header.
type Encoding string

const (
	EncodingGzip   Encoding = "gzip"
	EncodingZstd   Encoding = "zstd"
	EncodingBrotli Encoding = "br"
)

// Suffix returns the file name suffix for the encoding, including the dot.
func (e Encoding) Suffix() string {
	switch e {
	case EncodingGzip:
		return ".gz"
	case EncodingZstd:
		return ".zst"
	case EncodingBrotli:
		return ".br"
	default:
		return ""
	}
}

func (e Encoding) String() string {
	return string(e)
}

// ParseEncoding parses an encoding name. "brotli" is accepted as an alias
// for "br".
func ParseEncoding(name string) (Encoding, error) {
	switch name {
	case "gzip", "gz":
		return EncodingGzip, nil
	case "zstd", "zst":
		return EncodingZstd, nil
	case "br", "brotli":
		return EncodingBrotli, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
}

// Compress encodes data with the given encoding at its strongest setting.
func Compress(enc Encoding, data []byte) ([]byte, error) {
	switch enc {
	case EncodingGzip:
		return Gzip(data)
	case EncodingZstd:
		return compressZstd(data), nil
	case EncodingBrotli:
		return compressBrotli(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, enc)
	}
}

// Decompress reverses Compress.
func Decompress(enc Encoding, compressed []byte) ([]byte, error) {
	switch enc {
	case EncodingGzip:
		return Gunzip(compressed)
	case EncodingZstd:
		result, err := zstdDecoder.DecodeAll(compressed, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		return result, nil
	case EncodingBrotli:
		result, err := io.ReadAll(brotli.NewReader(bytes.NewReader(compressed)))
		if err != nil {
			return nil, fmt.Errorf("brotli decompress: %w", err)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, enc)
	}
}

// Gzip compresses data at gzip.BestCompression. The header carries a zero
// modification time and no name, so the stream is a pure function of data.
//
// The writer encodes ModTime.Unix() even for the zero time.Time, so the
// epoch is set explicitly.
func Gzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}

	// No Name or Comment; mtime bytes are 00 00 00 00.
	zw.Header = gzip.Header{OS: 255, ModTime: time.Unix(0, 0)}

	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("gzip write: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}

	return buf.Bytes(), nil
}

// Gunzip decompresses a single gzip member.
func Gunzip(compressed []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("gzip header: %w", err)
	}
	defer zr.Close()

	result, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip decompress: %w", err)
	}

	return result, nil
}

// zstdEncoder and zstdDecoder are reused across calls. EncodeAll and
// DecodeAll are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderCRC(true),
		zstd.WithZeroFrames(true),
	)
	if err != nil {
		panic("compress: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("compress: zstd decoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) []byte {
	return zstdEncoder.EncodeAll(data, nil)
}

func compressBrotli(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	bw := brotli.NewWriterLevel(&buf, brotli.BestCompression)
	if _, err := bw.Write(data); err != nil {
		return nil, fmt.Errorf("brotli write: %w", err)
	}

	if err := bw.Close(); err != nil {
		return nil, fmt.Errorf("brotli close: %w", err)
	}

	return buf.Bytes(), nil
}
