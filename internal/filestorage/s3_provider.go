package filestorage

import (
	"bytes"
	"context"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	consts "github.com/carbonroom/carbonroom/internal/config"
)

type S3Storage struct {
	client    *s3.Client
	bucket    string
	vaultPath string
}

func NewS3Storage(bucket string, vaultPath string) *S3Storage {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		panic(err)
	}
	return &S3Storage{
		client:    s3.NewFromConfig(cfg),
		bucket:    bucket,
		vaultPath: vaultPath,
	}
}

func (f *S3Storage) StoreVaultFile(ctx context.Context, name string, content []byte, contentType string) error {
	key := path.Join(f.vaultPath, name)
	_, err := f.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &f.bucket,
		Key:         &key,
		Body:        bytes.NewReader(content),
		ContentType: &contentType,
	})
	return err
}

func (f *S3Storage) GetVaultDownloadURL(ctx context.Context, name string) (string, error) {
	var (
		key           = path.Join(f.vaultPath, name)
		presignClient = s3.NewPresignClient(f.client)
	)
	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &f.bucket,
		Key:    &key,
	}, func(po *s3.PresignOptions) {
		po.Expires = time.Minute * consts.PRESIGN_URL_EXPIRE_MINUTES
	})
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
