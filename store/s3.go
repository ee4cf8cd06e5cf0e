/*
 * s3.go, part of trajcol.
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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

//S3API is the part of the S3 client used by S3.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

//S3 implements Backend on a bucket.
type S3 struct {
	client S3API
	bucket string
	logger *zap.Logger
}

//NewS3 returns a backend for bucket using client.
func NewS3(client S3API, bucket string, logger *zap.Logger) *S3 {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3{client: client, bucket: bucket, logger: logger}
}

//NewS3FromEnv builds the client from the default AWS configuration. For
//S3-compatible services, TRAJCOL_S3_ENDPOINT sets the endpoint (path
//style) and TRAJCOL_S3_ACCESS_KEY / TRAJCOL_S3_SECRET_KEY static
//credentials.
func NewS3FromEnv(ctx context.Context, bucket string, logger *zap.Logger) (*S3, error) {
	var opts []func(*config.LoadOptions) error
	if ak := os.Getenv("TRAJCOL_S3_ACCESS_KEY"); ak != "" {
		creds := credentials.NewStaticCredentialsProvider(ak, os.Getenv("TRAJCOL_S3_SECRET_KEY"), "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}
	if region := os.Getenv("TRAJCOL_S3_REGION"); region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	endpoint := os.Getenv("TRAJCOL_S3_ENDPOINT")
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3(client, bucket, logger), nil
}

//Put stores data in S3
func (b *S3) Put(ctx context.Context, key string, data io.Reader) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   data,
	})
	if err != nil {
		return fmt.Errorf("put object %s/%s: %w", b.bucket, key, err)
	}
	b.logger.Debug("object stored", zap.String("bucket", b.bucket), zap.String("key", key))
	return nil
}

//Get retrieves data from S3
func (b *S3) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	result, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s/%s: %w", b.bucket, key, err)
	}
	return result.Body, nil
}
