package hbench

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tcnksm/go-httpstat"
)

// s3API is the slice of the SDK client the benchmark uses. *s3.Client
// satisfies it; tests substitute a fake.
type s3API interface {
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	DeleteBucket(ctx context.Context, params *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error)
}

// S3Client benchmarks an S3-compatible object store (MinIO in the stock
// deployment) with per-item put/get operations.
type S3Client struct {
	delegate s3API
	cfg      *S3ClientConfig
}

type S3ClientConfig struct {
	Region   string
	Endpoint string
	// AccessKey/SecretKey select static credentials. Empty means the SDK's
	// default credential chain.
	AccessKey string
	SecretKey string
	Insecure  bool
	// ChunkSize is the read drain buffer size. DefaultCopyChunkSize when zero.
	ChunkSize int
	// Timeout caps a whole S3 call including the body transfer. Zero means no
	// client-side timeout, which large files on slow links need.
	Timeout time.Duration
}

func NewS3Client(obConfig *S3ClientConfig) (*S3Client, error) {
	// gets the AWS credentials from the environment, the default file or the EC2 instance profile
	loadOptions := []func(*config.LoadOptions) error{}
	if obConfig.AccessKey != "" {
		loadOptions = append(loadOptions,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(obConfig.AccessKey, obConfig.SecretKey, "")))
	}

	// set the endpoint in the configuration
	if obConfig.Endpoint != "" {
		customResolver := aws.EndpointResolverFunc(func(service, region string) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL: obConfig.Endpoint,
			}, nil
		})
		loadOptions = append(loadOptions, config.WithEndpointResolver(customResolver))
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("load AWS SDK config: %w", err)
	}
	cfg.Region = obConfig.Region

	// trust all certificates when asked to
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: obConfig.Insecure},
	}
	cfg.HTTPClient = &http.Client{
		Timeout:   obConfig.Timeout,
		Transport: tr,
	}

	// custom endpoints don't generally work with the bucket in the host prefix
	usePathStyleOptFunc := func(options *s3.Options) {
		options.UsePathStyle = obConfig.Endpoint != ""
	}

	return &S3Client{
		delegate: s3.NewFromConfig(cfg, usePathStyleOptFunc),
		cfg:      obConfig,
	}, nil
}

func (c *S3Client) Kind() string {
	return "s3"
}

func (c *S3Client) BatchMode() bool {
	return false
}

// PrepareTarget creates the bucket. A bucket that already exists from an
// earlier run counts as success.
func (c *S3Client) PrepareTarget(ctx context.Context, target Target) error {
	var result httpstat.Result
	if c.cfg.Endpoint != "" {
		ctx = httpstat.WithHTTPStat(ctx, &result)
	}

	_, err := c.delegate.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(target.Root),
	})
	if err != nil && !bucketAlreadyExists(err) {
		return err
	}

	if c.cfg.Endpoint != "" {
		// one-shot connection diagnostic for custom deployments
		fmt.Printf("S3 connection to %s: dns %d ms, tcp %d ms, tls %d ms, server %d ms\n",
			c.cfg.Endpoint,
			result.DNSLookup.Milliseconds(),
			result.TCPConnection.Milliseconds(),
			result.TLSHandshake.Milliseconds(),
			result.ServerProcessing.Milliseconds())
	}
	return nil
}

// the SDK reports these as typed api errors; matching the error text keeps us
// independent of which one a given store returns
func bucketAlreadyExists(err error) bool {
	return strings.Contains(err.Error(), "BucketAlreadyOwnedByYou") ||
		strings.Contains(err.Error(), "BucketAlreadyExists")
}

// WriteItem streams the staged file as the put body. The SDK reads from the
// open file handle, so the file never sits in memory as a whole.
func (c *S3Client) WriteItem(ctx context.Context, target Target, item TestItem) error {
	f, err := os.Open(item.LocalPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = c.delegate.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(target.Root),
		Key:    aws.String(item.Key),
		Body:   f,
	})
	return err
}

// ReadItem downloads the object and discards the body in fixed-size chunks.
func (c *S3Client) ReadItem(ctx context.Context, target Target, item TestItem) error {
	resp, err := c.delegate.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(target.Root),
		Key:    aws.String(item.Key),
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, err = drainReader(resp.Body, clampChunk(c.cfg.ChunkSize, item.Size))
	return err
}

func (c *S3Client) DeleteItem(ctx context.Context, target Target, item TestItem) error {
	_, err := c.delegate.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(target.Root),
		Key:    aws.String(item.Key),
	})
	return err
}

// DeleteTarget removes the bucket. Only succeeds once the bucket is empty;
// the sweeper records anything else.
func (c *S3Client) DeleteTarget(ctx context.Context, target Target) error {
	_, err := c.delegate.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(target.Root),
	})
	return err
}
