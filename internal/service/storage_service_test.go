package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func newStorageServiceForTest(t *testing.T, useSSL bool) *MinIOStorageService {
	t.Helper()
	client, err := minio.New("minio.local:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("test", "test-secret", ""),
		Secure: useSSL,
	})
	if err != nil {
		t.Fatalf("minio client: %v", err)
	}
	return &MinIOStorageService{
		client:     client,
		bucketName: "post-images",
		endpoint:   "minio.local:9000",
		useSSL:     useSSL,
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc := newStorageServiceForTest(t, false)
	_, err := svc.Upload(context.Background(), 1, strings.NewReader("x"), maxUploadSize+1, "image/jpeg")
	if !errors.Is(err, ErrFileTooBig) {
		t.Fatalf("expected ErrFileTooBig, got %v", err)
	}
}

func TestUploadRejectsDisallowedContentType(t *testing.T) {
	svc := newStorageServiceForTest(t, false)
	for _, ct := range []string{"image/gif", "application/pdf", "text/html", ""} {
		t.Run(ct, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), 1, strings.NewReader("x"), 10, ct)
			if !errors.Is(err, ErrInvalidFileType) {
				t.Fatalf("expected ErrInvalidFileType for %q, got %v", ct, err)
			}
		})
	}
}

func TestPublicURLScheme(t *testing.T) {
	plain := newStorageServiceForTest(t, false)
	if got := plain.publicURL("posts/user-1/x.jpg"); got != "http://minio.local:9000/post-images/posts/user-1/x.jpg" {
		t.Fatalf("unexpected url %q", got)
	}
	tls := newStorageServiceForTest(t, true)
	if got := tls.publicURL("posts/user-1/x.jpg"); !strings.HasPrefix(got, "https://") {
		t.Fatalf("expected https url, got %q", got)
	}
}

func TestPublicReadPolicyTargetsBucket(t *testing.T) {
	raw := publicReadPolicy("post-images")
	var policy struct {
		Statement []struct {
			Effect   string   `json:"Effect"`
			Action   []string `json:"Action"`
			Resource []string `json:"Resource"`
		} `json:"Statement"`
	}
	if err := json.Unmarshal([]byte(raw), &policy); err != nil {
		t.Fatalf("policy is not valid json: %v", err)
	}
	if len(policy.Statement) != 1 {
		t.Fatalf("expected one statement, got %d", len(policy.Statement))
	}
	st := policy.Statement[0]
	if st.Effect != "Allow" || len(st.Action) != 1 || st.Action[0] != "s3:GetObject" {
		t.Fatalf("unexpected statement: %+v", st)
	}
	if st.Resource[0] != "arn:aws:s3:::post-images/*" {
		t.Fatalf("unexpected resource: %v", st.Resource)
	}
}

func TestDeleteIgnoresEmptyObjectKey(t *testing.T) {
	svc := newStorageServiceForTest(t, false)
	if err := svc.Delete(context.Background(), "   "); err != nil {
		t.Fatalf("expected empty key delete to be a no-op, got %v", err)
	}
}
