package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const htmlContentType = "text/html; charset=utf-8"

// Store is where rendered reports are published.
type Store interface {
	Upload(ctx context.Context, key, contentType string, body []byte) error
	URL(ctx context.Context, key string) (string, error)
}

// Key returns reports/<yyyy-mm-dd>/<id>.html for a report generated at t.
func Key(t time.Time, id string) string {
	return fmt.Sprintf("reports/%s/%s.html", t.UTC().Format("2006-01-02"), id)
}

// Publish uploads html under a fresh key and returns the key and a URL to
// read it back.
func Publish(ctx context.Context, store Store, html []byte, generatedAt time.Time) (key, url string, err error) {
	key = Key(generatedAt, uuid.NewString())
	if err := store.Upload(ctx, key, htmlContentType, html); err != nil {
		return "", "", err
	}
	url, err = store.URL(ctx, key)
	if err != nil {
		return key, "", fmt.Errorf("resolve report url: %w", err)
	}
	return key, url, nil
}
