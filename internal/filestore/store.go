// Package filestore defines the interface for the object storage that holds
// uploaded database files.
//
// The host environment uploads a user's database file to a bucket; attaching
// from object storage downloads the object to a local temp file and hands
// that path to the session layer. Callers depend only on this package,
// never on a specific provider package.
package filestore

import (
	"context"
	"io"
	"time"
)

// Store is the interface all object storage providers implement.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// GetObject opens a streaming handle to the object at key inside bucket.
	// The caller MUST call Object.Close() after reading.
	GetObject(ctx context.Context, bucket, key string) (Object, error)

	// StatObject returns metadata for the object at key inside bucket
	// without downloading its content.
	StatObject(ctx context.Context, bucket, key string) (*ObjectInfo, error)

	// ListObjects returns the objects in bucket whose key starts with prefix.
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
}

// ObjectInfo describes a single object stored in a bucket.
type ObjectInfo struct {
	Key          string
	Size         int64 // -1 if unknown
	ContentType  string
	ETag         string
	LastModified time.Time
}

// Object is a streaming handle to an object's content.
// The caller MUST call Close() after reading to avoid resource leaks.
type Object interface {
	io.ReadCloser

	// Info returns the metadata for this object.
	Info() *ObjectInfo
}

// Config holds all settings needed to connect to an object storage backend.
type Config struct {
	Endpoint  string `yaml:"endpoint"` // host:port, e.g. "localhost:9000"
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"-"` // from env only
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"` // leave empty for MinIO

	// Bucket is the bucket holding uploaded database files.
	Bucket string `yaml:"bucket"`
}
