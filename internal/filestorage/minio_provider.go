package filestorage

import (
	"bytes"
	"context"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	consts "github.com/carbonroom/carbonroom/internal/config"
)

func NewMinIOStorage(bucket, vaultPath, endpoint, accessKeyID, secretAccessKey string) *MinIOStorage {
	m, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: true,
	})
	if err != nil {
		panic(err)
	}
	return &MinIOStorage{
		client:    m,
		bucket:    bucket,
		vaultPath: vaultPath,
	}
}

type MinIOStorage struct {
	client    *minio.Client
	bucket    string
	vaultPath string
}

// StoreVaultFile writes the registered asset bytes under the vault
// prefix. Objects are never overwritten or deleted afterwards.
func (f *MinIOStorage) StoreVaultFile(ctx context.Context, name string, content []byte, contentType string) error {
	_, err := f.client.PutObject(
		ctx,
		f.bucket,
		f.vaultPath+"/"+name,
		bytes.NewReader(content),
		int64(len(content)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	return err
}

func (f *MinIOStorage) GetVaultDownloadURL(ctx context.Context, name string) (string, error) {
	u, err := f.client.PresignedGetObject(ctx, f.bucket, f.vaultPath+"/"+name, time.Minute*consts.PRESIGN_URL_EXPIRE_MINUTES, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
