package s3export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gofiber/fiber/v2/log"

	"github.com/thaiwebseo/unicorn-x/app/models"
)

// Client wraps the S3 client with order-export functionality
type Client struct {
	s3Client *s3.Client
	config   *Config
}

// ExportResult describes a completed ledger export
type ExportResult struct {
	ObjectKey  string
	OrderCount int
	SizeBytes  int
	ExportedAt time.Time
}

// NewClient creates a new S3 export client
func NewClient(cfg *Config) (*Client, error) {
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("S3 export is disabled")
	}

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// S3-compatible services (like Backblaze B2) need path-style URLs
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	client := &Client{
		s3Client: s3Client,
		config:   cfg,
	}

	// Test connection
	if err := client.testConnection(); err != nil {
		return nil, fmt.Errorf("failed to connect to S3: %w", err)
	}

	log.Infof("[S3Export] Successfully initialized S3 client for bucket: %s", cfg.GetBucketName())
	return client, nil
}

// testConnection checks bucket access, creating the bucket outside prod
func (c *Client) testConnection() error {
	ctx := context.Background()
	bucketName := c.config.GetBucketName()

	_, err := c.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucketName),
	})

	if err != nil {
		if GetAppEnv() != "prod" {
			log.Warnf("[S3Export] Bucket %s not found, attempting to create it", bucketName)
			return c.createBucket(bucketName)
		}
		return fmt.Errorf("bucket %s not accessible: %w", bucketName, err)
	}

	return nil
}

// createBucket creates a new S3 bucket (dev/staging only)
func (c *Client) createBucket(bucketName string) error {
	ctx := context.Background()

	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucketName),
	}

	// For AWS regions other than us-east-1 a location constraint is required.
	// For S3-compatible endpoints we leave it unset.
	if c.config.EndpointURL == "" && c.config.Region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(c.config.Region),
		}
	}

	_, err := c.s3Client.CreateBucket(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
	}

	log.Infof("[S3Export] Successfully created bucket: %s", bucketName)
	return nil
}

// ExportOrders renders the given orders as CSV and uploads the file.
func (c *Client) ExportOrders(ctx context.Context, orders []models.Order, exportedAt time.Time) (*ExportResult, error) {
	data, err := RenderOrdersCSV(orders)
	if err != nil {
		return nil, fmt.Errorf("failed to render order CSV: %w", err)
	}

	objectKey := c.config.GetObjectKey(exportedAt)
	_, err = c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.config.GetBucketName()),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload order export %s: %w", objectKey, err)
	}

	log.Infof("[S3Export] Exported %d orders to %s (%d bytes)", len(orders), objectKey, len(data))
	return &ExportResult{
		ObjectKey:  objectKey,
		OrderCount: len(orders),
		SizeBytes:  len(data),
		ExportedAt: exportedAt,
	}, nil
}

// RenderOrdersCSV renders the order ledger as CSV
func RenderOrdersCSV(orders []models.Order) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "user_id", "subscription_id", "plan_name", "billing_interval", "amount", "currency", "coupon_code", "status", "checkout_session_id", "created_at"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, o := range orders {
		record := []string{
			strconv.FormatUint(uint64(o.ID), 10),
			strconv.FormatUint(uint64(o.UserID), 10),
			strconv.FormatUint(uint64(o.SubscriptionID), 10),
			o.PlanName,
			o.BillingInterval,
			strconv.FormatFloat(o.Amount, 'f', 2, 64),
			o.Currency,
			o.CouponCode,
			o.Status,
			o.CheckoutSessionID,
			o.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
