package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutter struct {
	bucket, key, contentType string
	body                     string
	err                      error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	f.contentType = aws.ToString(in.ContentType)
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestPublish(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "thinkpad.jsonl")
	if err := os.WriteFile(file, []byte(`{"id":"a"}`+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	fp := &fakePutter{}
	p := &S3Publisher{client: fp, bucket: "corpus", prefix: "raw/2026", Path: func(name string) string {
		return filepath.Join(dir, name+".jsonl")
	}}

	if err := p.Publish(context.Background(), "thinkpad"); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if fp.bucket != "corpus" || fp.key != "raw/2026/thinkpad.jsonl" || fp.contentType != "application/x-ndjson" {
		t.Errorf("Unexpected upload: %+v", fp)
	}
	if fp.body != `{"id":"a"}`+"\n" {
		t.Errorf("Unexpected body: %q", fp.body)
	}
}

func TestPublishErrors(t *testing.T) {
	dir := t.TempDir()
	p := &S3Publisher{client: &fakePutter{}, bucket: "corpus", Path: func(name string) string {
		return filepath.Join(dir, name+".jsonl")
	}}
	if err := p.Publish(context.Background(), "missing"); err == nil {
		t.Error("Expected error for a missing file")
	}

	if err := os.WriteFile(filepath.Join(dir, "x.jsonl"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	denied := errors.New("access denied")
	p.client = &fakePutter{err: denied}
	if err := p.Publish(context.Background(), "x"); !errors.Is(err, denied) {
		t.Errorf("Expected wrapped upload error, got %v", err)
	}
}

func TestKeyWithoutPrefix(t *testing.T) {
	p := &S3Publisher{}
	if got := p.Key("/data/raw/laptops.jsonl"); got != "laptops.jsonl" {
		t.Errorf("Expected bare file name, got %q", got)
	}
}
