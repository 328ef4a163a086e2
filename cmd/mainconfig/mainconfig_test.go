package mainconfig

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/wolfman30/psyclinic-dashboard/internal/config"
)

func TestLoadAWSConfigStaticCredentials(t *testing.T) {
	cfg := appconfig.Defaults()
	cfg.AWSRegion = "eu-south-2"
	cfg.AWSAccessKeyID = "test"
	cfg.AWSSecretAccessKey = "secret"

	awsCfg, err := LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("LoadAWSConfig() error = %v", err)
	}
	if awsCfg.Region != "eu-south-2" {
		t.Fatalf("expected region eu-south-2, got %s", awsCfg.Region)
	}
	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("retrieve credentials: %v", err)
	}
	if creds.AccessKeyID != "test" {
		t.Fatalf("expected static access key, got %s", creds.AccessKeyID)
	}
}

func TestS3OptionsEndpointOverride(t *testing.T) {
	cfg := appconfig.Defaults()
	if opts := S3Options(cfg); len(opts) != 0 {
		t.Fatalf("expected no options without override, got %d", len(opts))
	}

	cfg.AWSEndpointOverride = "http://localhost:4566"
	opts := S3Options(cfg)
	if len(opts) != 1 {
		t.Fatalf("expected one option, got %d", len(opts))
	}
	var o s3.Options
	opts[0](&o)
	if o.BaseEndpoint == nil || *o.BaseEndpoint != "http://localhost:4566" || !o.UsePathStyle {
		t.Fatalf("expected path-style LocalStack endpoint, got %+v", o.BaseEndpoint)
	}
}
