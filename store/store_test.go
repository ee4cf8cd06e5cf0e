/*
 * store_test.go, part of trajcol.
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

package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcnicholas/trajcol/container"
	"github.com/tcnicholas/trajcol/nd"
)

var errNoSuchKey = errors.New("NoSuchKey")

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errNoSuchKey
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func testContainer(Te *testing.T) *container.Container {
	C := container.New(container.Zstd)
	require.NoError(Te, C.Put("mutable", "positions", nd.FromFloat32(make([]float32, 12), 2, 2, 3)))
	return C
}

func TestLocal(Te *testing.T) {
	ctx := context.Background()
	l := Local{Root: Te.TempDir()}
	require.NoError(Te, l.Put(ctx, "runs/a.txt", strings.NewReader("hello")))
	rc, err := l.Get(ctx, "runs/a.txt")
	require.NoError(Te, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(Te, err)
	assert.Equal(Te, "hello", string(data))

	_, err = l.Get(ctx, "nothing")
	assert.ErrorIs(Te, err, os.ErrNotExist)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(Te, l.Put(cctx, "runs/b.txt", strings.NewReader("x")), context.Canceled)
	entries, err := os.ReadDir(filepath.Join(l.Root, "runs"))
	require.NoError(Te, err)
	assert.Len(Te, entries, 1)
}

func TestContainerS3(Te *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	b := NewS3(fake, "trajectories", nil)
	C := testContainer(Te)
	require.NoError(Te, PutContainer(ctx, b, "md/run1.trjc", C))
	assert.Contains(Te, fake.objects, "trajectories/md/run1.trjc")

	D, err := GetContainer(ctx, b, "md/run1.trjc")
	require.NoError(Te, err)
	assert.Equal(Te, C.ID(), D.ID())

	_, err = GetContainer(ctx, b, "md/run2.trjc")
	assert.ErrorIs(Te, err, errNoSuchKey)

	fake.objects["trajectories/bad"] = []byte("not a container")
	_, err = GetContainer(ctx, b, "bad")
	assert.ErrorIs(Te, err, container.ErrFormat)
}

func TestOpen(Te *testing.T) {
	ctx := context.Background()
	b, key, err := Open(ctx, "/data/run/out.trjc", nil)
	require.NoError(Te, err)
	assert.Equal(Te, Local{Root: "/data/run"}, b)
	assert.Equal(Te, "out.trjc", key)

	_, _, err = Open(ctx, "s3://bucket-only", nil)
	assert.Error(Te, err)
	_, _, err = Open(ctx, "s3:///key", nil)
	assert.Error(Te, err)

	Te.Setenv("AWS_REGION", "us-east-1")
	Te.Setenv("TRAJCOL_S3_ACCESS_KEY", "key")
	Te.Setenv("TRAJCOL_S3_SECRET_KEY", "secret")
	Te.Setenv("TRAJCOL_S3_ENDPOINT", "http://localhost:9000")
	b, key, err = Open(ctx, "s3://bucket/md/run.trjc", nil)
	require.NoError(Te, err)
	assert.Equal(Te, "md/run.trjc", key)
	s, ok := b.(*S3)
	require.True(Te, ok)
	assert.Equal(Te, "bucket", s.bucket)
}
