package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/trophy/internal/server/config"
	"github.com/google/uuid"
)

// mediaURLValidity is how long a presigned upload URL stays usable.
const mediaURLValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// mediaStore presigns uploads to the S3-compatible bucket holding project
// images.
type mediaStore struct {
	config *sc.Config
}

// projectMediaKey returns a fresh object key under the project's prefix.
func projectMediaKey(projectID int64) string {
	return fmt.Sprintf("projects/%d/%v", projectID, uuid.New())
}

func (m *mediaStore) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(m.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			m.config.S3RootUser,
			m.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(m.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// presignPut returns a PUT URL for key valid for mediaURLValidity.
func (m *mediaStore) presignPut(ctx context.Context, key string) (string, error) {
	presignClient, err := m.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := m.config.S3Bucket
	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(mediaURLValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
