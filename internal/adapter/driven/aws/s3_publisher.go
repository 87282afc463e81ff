package aws

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/diillson/arch-schedule-go/internal/domain/repository"
)

// S3API é o subconjunto do cliente S3 usado pelo publicador.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var contentTypes = map[string]string{
	".csv":  "text/csv",
	".tsv":  "text/tab-separated-values",
	".md":   "text/markdown",
	".json": "application/json",
	".pdf":  "application/pdf",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// S3Publisher envia relatórios exportados para um bucket S3.
type S3Publisher struct {
	bucket  string
	prefix  string
	profile string

	cfgCache map[string]aws.Config
	client   S3API
	mu       sync.Mutex
}

// NewS3Publisher cria um publicador; a configuração AWS só é carregada no
// primeiro envio.
func NewS3Publisher(bucket, prefix, profile string) repository.PublishRepository {
	return &S3Publisher{
		bucket:   bucket,
		prefix:   prefix,
		profile:  profile,
		cfgCache: make(map[string]aws.Config),
	}
}

// Publish faz o upload de localPath e devolve a URI s3:// do objeto.
func (p *S3Publisher) Publish(ctx context.Context, localPath string) (string, error) {
	client, err := p.getClient(ctx)
	if err != nil {
		return "", err
	}

	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("error opening report for upload: %w", err)
	}
	defer file.Close()

	key := objectKey(p.prefix, filepath.Base(localPath))
	input := &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
		Body:   file,
	}
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(localPath))]; ok {
		input.ContentType = aws.String(ct)
	}

	if _, err := client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s to bucket %s: %w", key, p.bucket, err)
	}
	return fmt.Sprintf("s3://%s/%s", p.bucket, key), nil
}

func (p *S3Publisher) getClient(ctx context.Context) (S3API, error) {
	p.mu.Lock()
	if p.client != nil {
		defer p.mu.Unlock()
		return p.client, nil
	}
	p.mu.Unlock()

	cfg, err := p.getAWSConfig(ctx, p.profile)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		p.client = s3.NewFromConfig(cfg)
	}
	return p.client, nil
}

func (p *S3Publisher) getAWSConfig(ctx context.Context, profile string) (aws.Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cfg, ok := p.cfgCache[profile]; ok {
		return cfg, nil
	}

	var opts []func(*config.LoadOptions) error
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %s: %w", profile, err)
	}

	p.cfgCache[profile] = cfg
	return cfg, nil
}

// objectKey junta prefixo e nome com "/", sem barras duplicadas.
func objectKey(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}
