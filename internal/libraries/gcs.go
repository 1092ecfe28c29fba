package libraries

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Clients holds the shared Google Cloud clients. Only storage lives here,
// the model providers manage their own credentials.
type Clients struct {
	GCS    *storage.Client
	Bucket string
}

var clients *Clients

func GetClients() *Clients {
	return clients
}

func NewClients(ctx context.Context) (*Clients, error) {
	// read base64 encoded JSON
	encoded := os.Getenv("GCP_SERVICE_ACCOUNT_CREDENTIALS")
	if encoded == "" {
		return nil, fmt.Errorf("GCP_SERVICE_ACCOUNT_CREDENTIALS not set")
	}

	// decode JSON
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode service account json: %w", err)
	}

	credOpt := option.WithCredentialsJSON(decoded)

	gcsClient, err := storage.NewClient(ctx, credOpt)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}

	clients = &Clients{
		GCS:    gcsClient,
		Bucket: os.Getenv("GCS_BUCKET"),
	}

	return clients, nil
}

// ArchiveExport uploads an exported document to the configured bucket.
// Archiving is best effort, callers log the error and move on.
func ArchiveExport(ctx context.Context, objectName, contentType string, data []byte) error {
	c := clients
	if c == nil || c.Bucket == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	w := c.GCS.Bucket(c.Bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("failed to write export object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize export object: %w", err)
	}
	return nil
}

func (c *Clients) Close() {
	c.GCS.Close()
}
