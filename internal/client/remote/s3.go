package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps each document as a JSON object at {prefix}/{path}.json.
// Merge writes read the current object and overlay top-level fields.
type S3Store struct {
	api    S3API
	bucket string
	prefix string
	token  string
}

func NewS3Store(api S3API, bucket, prefix, token string) *S3Store {
	return &S3Store{api: api, bucket: bucket, prefix: strings.Trim(prefix, "/"), token: token}
}

func (s *S3Store) Namespace() (string, bool) {
	return NamespaceFromToken(s.token)
}

func (s *S3Store) objectKey(path string) string {
	key := strings.Trim(path, "/") + ".json"
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func (s *S3Store) GetDoc(ctx context.Context, path string) (Doc, error) {
	if _, ok := s.Namespace(); !ok {
		return Doc{}, ErrNoNamespace
	}

	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(path)),
	})
	if err != nil {
		if isMissing(err) {
			return Doc{}, nil
		}
		return Doc{}, mapS3Error(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return Doc{}, fmt.Errorf("%w: read %s: %v", ErrUnavailable, path, err)
	}
	return Doc{Exists: true, Data: data}, nil
}

func (s *S3Store) SetDoc(ctx context.Context, path string, data json.RawMessage, merge bool) error {
	if _, ok := s.Namespace(); !ok {
		return ErrNoNamespace
	}

	body := data
	if merge {
		current, err := s.GetDoc(ctx, path)
		if err != nil {
			return err
		}
		if current.Exists {
			body, err = MergeFields(current.Data, data)
			if err != nil {
				return err
			}
		}
	}

	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(path)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return mapS3Error(err)
	}
	return nil
}

// MergeFields overlays the top-level fields of patch on base. Both must be
// JSON objects.
func MergeFields(base, patch json.RawMessage) (json.RawMessage, error) {
	merged := map[string]json.RawMessage{}
	if len(base) > 0 {
		if err := json.Unmarshal(base, &merged); err != nil {
			return nil, fmt.Errorf("merge base: %w", err)
		}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(patch, &fields); err != nil {
		return nil, fmt.Errorf("merge patch: %w", err)
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// isMissing reports whether err means the object does not exist. S3
// answers NoSuchKey; some compatible stores answer NotFound.
func isMissing(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

func mapS3Error(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
