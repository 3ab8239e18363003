package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"

	"github.com/jhoicas/pos-api/pkg/config"
)

// OSSStorage sube objetos a un bucket de Alibaba Cloud OSS.
type OSSStorage struct {
	client    *oss.Client
	bucket    string
	publicURL string
}

// NewOSSStorage crea el cliente con credenciales estáticas de la configuración.
func NewOSSStorage(cfg config.OSSConfig) *OSSStorage {
	ossCfg := oss.LoadDefaultConfig().
		WithEndpoint(cfg.Endpoint).
		WithRegion(cfg.Region).
		WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.AccessKeySecret),
		)
	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.%s", cfg.Bucket, cfg.Endpoint)
	}
	return &OSSStorage{
		client:    oss.NewClient(ossCfg),
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Put sube el contenido bajo key y devuelve su URL pública.
func (s *OSSStorage) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &oss.PutObjectRequest{
		Bucket:      oss.Ptr(s.bucket),
		Key:         oss.Ptr(key),
		ContentType: oss.Ptr(contentType),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("oss put %s: %w", key, err)
	}
	return s.URL(key), nil
}

// URL arma la URL pública de un objeto.
func (s *OSSStorage) URL(key string) string {
	return s.publicURL + "/" + strings.TrimLeft(key, "/")
}
