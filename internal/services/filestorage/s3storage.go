package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"

	"github.com/tilevision/segserve/internal/config"
)

type S3FileStorage struct {
	client *s3.Client
	cfg    *config.S3Config
}

func NewS3FileStorage(cfg *config.Config) (*S3FileStorage, error) {
	if cfg.S3 == nil {
		return nil, fmt.Errorf("s3 config is not set")
	}

	credentialsProvider := credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, "")
	awsCfg, err := awsconfig.LoadDefaultConfig(
		context.TODO(),
		awsconfig.WithRegion(cfg.S3.Region),
		awsconfig.WithCredentialsProvider(credentialsProvider),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.EndpointUrl != "" {
			o.BaseEndpoint = &cfg.S3.EndpointUrl
		}
	})

	return &S3FileStorage{client: client, cfg: cfg.S3}, nil
}

func (s *S3FileStorage) key(filename string) string {
	folder := strings.TrimSuffix(s.cfg.Folder, "/")
	if folder == "" {
		return filename
	}

	return fmt.Sprintf("%s/%s", folder, filename)
}

func (s *S3FileStorage) Upload(file FileInfo) (string, error) {
	key := s.key(fmt.Sprintf("%s%s", file.Name, file.Extension))
	mtype := mimetype.Detect(file.Content).String()

	input := s3.PutObjectInput{
		Key:         &key,
		ContentType: &mtype,
		Bucket:      &s.cfg.Bucket,
		Body:        bytes.NewReader(file.Content),
		ACL:         types.ObjectCannedACLPublicRead,
	}
	if _, err := s.client.PutObject(context.TODO(), &input); err != nil {
		return "", err
	}

	if s.cfg.PublicUrl == "" {
		return "", fmt.Errorf("s3 public_url is not set, cannot build file URL")
	}

	return fmt.Sprintf("%s/%s", strings.TrimSuffix(s.cfg.PublicUrl, "/"), key), nil
}

func (s *S3FileStorage) GetFile(filename string) (*FileInfo, error) {
	key := s.key(filename)
	output, err := s.client.GetObject(context.TODO(), &s3.GetObjectInput{
		Key:    &key,
		Bucket: &s.cfg.Bucket,
	})
	if err != nil {
		return nil, err
	}
	defer output.Body.Close()

	content, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, err
	}

	return &FileInfo{
		Name:      filename,
		Extension: filepath.Ext(filename),
		Content:   content,
	}, nil
}

// ResolveFile has no local path to offer for S3-backed storage; callers
// should fall back to GetFile.
func (s *S3FileStorage) ResolveFile(filename string) (string, error) {
	return "", fmt.Errorf("s3 storage does not expose local paths")
}
