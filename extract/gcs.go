package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCS fetches extracts from the archive bucket. Objects are named
// {prefix}/{YYYY-MM-DD}{suffix}, one per day.
type GCS struct {
	Bucket string
	Prefix string
	Suffix string

	client *storage.Client
}

const (
	DefaultPrefix = "Data/Arrivals/"
	DefaultSuffix = "_BOS_Arrivals.csv"
)

func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("GCS client: %w", err)
	}
	return &GCS{
		Bucket: bucket,
		Prefix: DefaultPrefix,
		Suffix: DefaultSuffix,
		client: client,
	}, nil
}

func (g *GCS) ObjectName(day time.Time) string {
	return g.Prefix + day.Format("2006-01-02") + g.Suffix
}

func (g *GCS) Fetch(ctx context.Context, day time.Time) (io.ReadCloser, error) {
	name := g.ObjectName(day)
	rdr, err := g.client.Bucket(g.Bucket).Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNoDataForDate
	}
	if err != nil {
		return nil, fmt.Errorf("GCS-Open %s|%s: %w", g.Bucket, name, err)
	}
	return rdr, nil
}

// List returns the names of every extract object in the archive, for
// the ls command.
func (g *GCS) List(ctx context.Context) ([]string, error) {
	q := &storage.Query{Prefix: g.Prefix}

	names := []string{}
	it := g.client.Bucket(g.Bucket).Objects(ctx, q)
	for {
		oa, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("GCS-Readdir [gs://%s]%s: %w", g.Bucket, q.Prefix, err)
		}
		names = append(names, oa.Name)
	}
	return names, nil
}
