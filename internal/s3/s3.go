package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Capitan-Parrot/proctoring-demo/internal/models"
)

var ErrNotFound = errors.New("report not found")

// Report загружается в MinIO при остановке сессии
type Report struct {
	Session models.Session         `json:"session"`
	Events  []models.ScenarioEvent `json:"events"`
}

type Client struct {
	client *minio.Client
	bucket string
}

func NewMinioClient(endpoint, accessKey, secretKey, bucket string, secure bool) (*Client, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &Client{client: client, bucket: bucket}, nil
}

func (c *Client) EnsureBucketExists(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// SaveSessionReport сохраняет отчёт как <bucket>/<session id>.json
func (c *Client) SaveSessionReport(ctx context.Context, report Report) error {
	jsonData, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := c.EnsureBucketExists(ctx); err != nil {
		return fmt.Errorf("bucket error: %w", err)
	}

	_, err = c.client.PutObject(
		ctx,
		c.bucket,
		objectName(report.Session.ID),
		bytes.NewReader(jsonData),
		int64(len(jsonData)),
		minio.PutObjectOptions{
			ContentType: "application/json",
		},
	)
	if err != nil {
		return fmt.Errorf("failed to save report to S3: %w", err)
	}
	return nil
}

// GetSessionReport читает отчёт; если его нет, возвращает ErrNotFound
func (c *Client) GetSessionReport(ctx context.Context, sessionID string) (*Report, error) {
	obj, err := c.client.GetObject(ctx, c.bucket, objectName(sessionID), minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	defer obj.Close()

	// GetObject ленивый: отсутствие ключа или бакета видно только при чтении
	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}

func objectName(sessionID string) string {
	return fmt.Sprintf("%s.json", sessionID)
}

// isNotFound: бакет создаётся при первой записи отчёта, до этого
// чтение получает NoSuchBucket
func isNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return true
	}
	return false
}
