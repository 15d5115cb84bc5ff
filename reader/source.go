package reader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Scheme identifies where a location points.
type Scheme string

const (
	SchemeLocal Scheme = "local"
	SchemeFile  Scheme = "file"
	SchemeS3    Scheme = "s3"
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
)

// DetectScheme returns the scheme of a location; anything without a known
// prefix is a local path.
func DetectScheme(location string) Scheme {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "s3://"):
		return SchemeS3
	case strings.HasPrefix(lower, "https://"):
		return SchemeHTTPS
	case strings.HasPrefix(lower, "http://"):
		return SchemeHTTP
	case strings.HasPrefix(lower, "file://"):
		return SchemeFile
	default:
		return SchemeLocal
	}
}

// S3Options configures access to s3:// locations. Empty fields fall back to
// the default AWS configuration chain.
type S3Options struct {
	Region    string
	Endpoint  string // S3-compatible endpoint; enables path-style addressing
	AccessKey string
	SecretKey string
}

// ObjectGetter is the part of the S3 client used for reading objects.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Opener opens locations for reading.
type Opener struct {
	S3     S3Options
	Client ObjectGetter // nil means build one from S3 on first use
	HTTP   *http.Client // nil means a client with a five minute timeout
}

// Open returns a reader for location, decompressing it when its name ends
// in .gz, .zst, .lz4 or .br. The caller must close it.
func (o *Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	raw, err := o.openRaw(ctx, location)
	if err != nil {
		return nil, err
	}

	rc, err := decompress(raw, Compression(location))
	if err != nil {
		_ = raw.Close()
		return nil, err
	}
	return rc, nil
}

func (o *Opener) openRaw(ctx context.Context, location string) (io.ReadCloser, error) {
	switch scheme := DetectScheme(location); scheme {
	case SchemeLocal, SchemeFile:
		p := location
		if scheme == SchemeFile {
			p = location[len("file://"):]
		}
		file, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		return file, nil

	case SchemeHTTP, SchemeHTTPS:
		return o.openHTTP(ctx, location)

	case SchemeS3:
		return o.openS3(ctx, location)

	default:
		return nil, fmt.Errorf("unsupported location scheme: %s", location)
	}
}

func (o *Opener) openHTTP(ctx context.Context, url string) (io.ReadCloser, error) {
	client := o.HTTP
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("HTTP request returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (o *Opener) openS3(ctx context.Context, url string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3URL(url)
	if err != nil {
		return nil, err
	}

	if o.Client == nil {
		client, err := NewS3Client(ctx, o.S3)
		if err != nil {
			return nil, err
		}
		o.Client = client
	}

	resp, err := o.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object: %w", err)
	}
	return resp.Body, nil
}

// ParseS3URL splits s3://bucket/key into its bucket and key.
func ParseS3URL(url string) (bucket, key string, err error) {
	rest := url[len("s3://"):]
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid S3 URL: %s", url)
	}
	return parts[0], parts[1], nil
}

// NewS3Client builds an S3 client from the default AWS configuration,
// overridden by any field set in opts.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")
		loadOpts = append(loadOpts, config.WithCredentialsProvider(creds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		})
	}
	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

// Compression returns the compression suffix of a location (".gz", ".zst",
// ".lz4", ".br") or "" for uncompressed data.
func Compression(location string) string {
	switch ext := strings.ToLower(path.Ext(location)); ext {
	case ".gz", ".zst", ".lz4", ".br":
		return ext
	default:
		return ""
	}
}

// stripCompression removes a compression suffix, leaving the data format
// extension: "sales.csv.gz" becomes "sales.csv".
func stripCompression(location string) string {
	if ext := Compression(location); ext != "" {
		return location[:len(location)-len(ext)]
	}
	return location
}

// readCloser pairs a decompressing reader with the close functions of
// every layer beneath it.
type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func decompress(raw io.ReadCloser, ext string) (io.ReadCloser, error) {
	switch ext {
	case "":
		return raw, nil
	case ".gz":
		zr, err := gzip.NewReader(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return &readCloser{Reader: zr, closers: []func() error{zr.Close, raw.Close}}, nil
	case ".zst":
		zr, err := zstd.NewReader(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return &readCloser{Reader: zr, closers: []func() error{func() error { zr.Close(); return nil }, raw.Close}}, nil
	case ".lz4":
		return &readCloser{Reader: lz4.NewReader(raw), closers: []func() error{raw.Close}}, nil
	case ".br":
		return &readCloser{Reader: brotli.NewReader(raw), closers: []func() error{raw.Close}}, nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", ext)
	}
}

// readSeekable loads rc fully into memory; Parquet needs random access.
func readSeekable(rc io.Reader) (*bytes.Reader, error) {
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	return bytes.NewReader(data), nil
}
