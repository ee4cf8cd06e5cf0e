/*
 * codec.go, part of trajcol.
 *
 *
 * Copyright 2024 The trajcol Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package container

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

//Compression selects the codec used for every dataset payload in a container.
type Compression uint8

const (
	None Compression = iota + 1
	Zstd
	S2
	LZ4
	Snappy
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	case Snappy:
		return "snappy"
	default:
		return "unknown"
	}
}

//Valid is true for the compressions this package implements.
func (c Compression) Valid() bool { return c >= None && c <= Snappy }

//ParseCompression returns the Compression with the given (case insensitive) name.
func ParseCompression(s string) (Compression, error) {
	for c := None; c <= Snappy; c++ {
		if strings.EqualFold(c.String(), s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown compression %q", s)
}

type codec interface {
	compress(src []byte) ([]byte, error)
	//rawLen is the exact decompressed size, as recorded in the dataset header.
	decompress(src []byte, rawLen int) ([]byte, error)
}

func codecFor(c Compression) (codec, error) {
	switch c {
	case None:
		return noneCodec{}, nil
	case Zstd:
		return zstdCodec{}, nil
	case S2:
		return s2Codec{}, nil
	case LZ4:
		return lz4Codec{}, nil
	case Snappy:
		return snappyCodec{}, nil
	}
	return nil, fmt.Errorf("%w: unsupported compression %d", ErrFormat, c)
}

type noneCodec struct{}

func (noneCodec) compress(src []byte) ([]byte, error) { return src, nil }

func (noneCodec) decompress(src []byte, _ int) ([]byte, error) { return src, nil }

//klauspost's encoders and decoders are meant to be reused, EncodeAll and
//DecodeAll are stateless.
var zstdEncoders = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			panic(fmt.Sprintf("can't create zstd encoder: %v", err))
		}
		return enc
	},
}

var zstdDecoders = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(fmt.Sprintf("can't create zstd decoder: %v", err))
		}
		return dec
	},
}

//maxPrealloc caps the buffer reserved for a zstd payload before decoding.
const maxPrealloc = 64 << 20

type zstdCodec struct{}

func (zstdCodec) compress(src []byte) ([]byte, error) {
	enc := zstdEncoders.Get().(*zstd.Encoder)
	defer zstdEncoders.Put(enc)
	return enc.EncodeAll(src, nil), nil
}

func (zstdCodec) decompress(src []byte, rawLen int) ([]byte, error) {
	dec := zstdDecoders.Get().(*zstd.Decoder)
	defer zstdDecoders.Put(dec)
	out, err := dec.DecodeAll(src, make([]byte, 0, min(rawLen, maxPrealloc)))
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return out, nil
}

type s2Codec struct{}

func (s2Codec) compress(src []byte) ([]byte, error) { return s2.Encode(nil, src), nil }

func (s2Codec) decompress(src []byte, rawLen int) ([]byte, error) {
	n, err := s2.DecodedLen(src)
	if err != nil {
		return nil, fmt.Errorf("s2: %w", err)
	}
	if n != rawLen {
		return nil, fmt.Errorf("s2: block holds %d bytes, expected %d", n, rawLen)
	}
	return s2.Decode(make([]byte, rawLen), src)
}

type lz4Codec struct{}

var lz4Compressors = sync.Pool{
	New: func() any { return &lz4.Compressor{} },
}

//An LZ4 block can't expand more than this. Each extra length byte adds at
//most 255 bytes of output.
const lz4MaxRatio = 256

//errIncompressible makes the caller store the payload raw.
var errIncompressible = errors.New("incompressible payload")

func (lz4Codec) compress(src []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	c := lz4Compressors.Get().(*lz4.Compressor)
	defer lz4Compressors.Put(c)
	n, err := c.CompressBlock(src, dst)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, errIncompressible
	}
	return dst[:n], nil
}

func (lz4Codec) decompress(src []byte, rawLen int) ([]byte, error) {
	if rawLen/lz4MaxRatio > len(src) {
		return nil, fmt.Errorf("lz4: %d bytes can't expand to %d", len(src), rawLen)
	}
	dst := make([]byte, rawLen)
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	return dst[:n], nil
}

type snappyCodec struct{}

func (snappyCodec) compress(src []byte) ([]byte, error) { return snappy.Encode(nil, src), nil }

func (snappyCodec) decompress(src []byte, rawLen int) ([]byte, error) {
	n, err := snappy.DecodedLen(src)
	if err != nil {
		return nil, fmt.Errorf("snappy: %w", err)
	}
	if n != rawLen {
		return nil, fmt.Errorf("snappy: block holds %d bytes, expected %d", n, rawLen)
	}
	return snappy.Decode(make([]byte, rawLen), src)
}
