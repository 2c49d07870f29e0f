// Package source fetches raw route table documents from local files,
// standard input or S3 objects.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/vango-dev/docroutes/pkg/codec"
	"github.com/vango-dev/docroutes/pkg/routetable"
)

// DefaultMaxSize bounds how much of a document is read.
const DefaultMaxSize int64 = 32 << 20

var (
	// ErrNotFound is returned when the file or object does not exist.
	ErrNotFound = errors.New("source: document not found")

	// ErrTooLarge is returned when a document exceeds the size limit.
	ErrTooLarge = errors.New("source: document too large")

	// ErrUnsupportedScheme is returned for URIs other than file, s3 and
	// plain paths.
	ErrUnsupportedScheme = errors.New("source: unsupported scheme")
)

// Document is one fetched route table document.
type Document struct {
	// Name is the file path or s3:// URI the document came from.
	Name string

	// Data is the raw content.
	Data []byte

	// ModTime is the last modification time, zero if unknown.
	ModTime time.Time

	// Version identifies this revision of the document: the S3 ETag or a
	// modification stamp for files.
	Version string
}

// Size returns the document size in bytes.
func (d *Document) Size() int64 {
	return int64(len(d.Data))
}

// Source fetches a document.
type Source interface {
	Fetch(ctx context.Context) (*Document, error)
	String() string
}

// Options configures Parse.
type Options struct {
	// MaxSize bounds the document size. Zero means DefaultMaxSize.
	MaxSize int64

	// S3 configures the client built for s3:// URIs.
	S3 S3Config

	// S3Client overrides the client built from S3.
	S3Client S3API
}

func (o Options) maxSize() int64 {
	if o.MaxSize <= 0 {
		return DefaultMaxSize
	}
	return o.MaxSize
}

// Parse returns the Source for a URI: "-" reads standard input,
// "s3://bucket/key" reads an S3 object, "file:///path" and plain paths read
// local files.
func Parse(uri string, opts Options) (Source, error) {
	if uri == "" {
		return nil, fmt.Errorf("source: empty location")
	}
	if uri == "-" {
		return &StdinSource{MaxSize: opts.maxSize()}, nil
	}
	if !strings.Contains(uri, "://") {
		return &FileSource{Path: uri, MaxSize: opts.maxSize()}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("source: parse %q: %w", uri, err)
	}
	switch u.Scheme {
	case "file":
		return &FileSource{Path: u.Host + u.Path, MaxSize: opts.maxSize()}, nil
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("source: %q must name a bucket and a key", uri)
		}
		client := opts.S3Client
		if client == nil {
			client = NewS3Client(opts.S3)
		}
		return &S3Source{Client: client, Bucket: u.Host, Key: key, MaxSize: opts.maxSize()}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedScheme, u.Scheme)
	}
}

// Open parses uri and fetches the document.
func Open(ctx context.Context, uri string, opts Options) (*Document, error) {
	src, err := Parse(uri, opts)
	if err != nil {
		return nil, err
	}
	return src.Fetch(ctx)
}

// Decode parses a document. FormatAuto picks the format from the document
// name, falling back to its content.
func Decode(doc *Document, format codec.Format) (*routetable.Table, error) {
	f, err := codec.Resolve(format, doc.Name, doc.Data)
	if err != nil {
		return nil, err
	}
	table, err := codec.Decode(f, doc.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Name, err)
	}
	return table, nil
}

// Load fetches and decodes the table at uri.
func Load(ctx context.Context, uri string, format codec.Format, opts Options) (*routetable.Table, *Document, error) {
	doc, err := Open(ctx, uri, opts)
	if err != nil {
		return nil, nil, err
	}
	table, err := Decode(doc, format)
	if err != nil {
		return nil, doc, err
	}
	return table, doc, nil
}
