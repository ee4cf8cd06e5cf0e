/*
 * store.go, part of trajcol.
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

//Package store moves trajectory containers to and from where they are kept:
//the local filesystem or an S3 bucket.
package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/tcnicholas/trajcol/container"
	"go.uber.org/zap"
)

//Backend stores blobs under keys.
type Backend interface {
	Put(ctx context.Context, key string, data io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

//Local implements Backend on a directory.
type Local struct {
	Root string
}

func (l Local) path(key string) string {
	return filepath.Join(l.Root, filepath.FromSlash(key))
}

//Put writes data to Root/key. The file only appears once complete.
func (l Local) Put(ctx context.Context, key string, data io.Reader) (err error) {
	name := l.path(key)
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if _, err = io.Copy(tmp, readerWithContext(ctx, data)); err != nil {
		return fmt.Errorf("put %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}

//Get opens Root/key.
func (l Local) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(l.path(key))
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}

//Open returns the backend and key for a location, either a local path or
//s3://bucket/key.
func Open(ctx context.Context, location string, logger *zap.Logger) (Backend, string, error) {
	if !strings.HasPrefix(location, "s3://") {
		return Local{Root: filepath.Dir(location)}, filepath.Base(location), nil
	}
	u, err := url.Parse(location)
	if err != nil {
		return nil, "", fmt.Errorf("bad location %s: %w", location, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return nil, "", fmt.Errorf("bad location %s: want s3://bucket/key", location)
	}
	b, err := NewS3FromEnv(ctx, u.Host, logger)
	if err != nil {
		return nil, "", err
	}
	return b, key, nil
}

//PutContainer encodes C and stores it under key.
func PutContainer(ctx context.Context, b Backend, key string, C *container.Container) error {
	var buf bytes.Buffer
	if err := C.Encode(&buf); err != nil {
		return err
	}
	return b.Put(ctx, key, bytes.NewReader(buf.Bytes()))
}

//GetContainer fetches and decodes the container stored under key.
func GetContainer(ctx context.Context, b Backend, key string) (*container.Container, error) {
	rc, err := b.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	C, err := container.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return C, nil
}
