package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"news-api/core"
	"news-api/stores/jsondoc"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
)

type documentStore struct {
	s3Client *s3.Client
	bucket   string // Name of the S3 bucket
}

func NewDocumentStore(ctx context.Context, bucketName string) (core.DocumentStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load SDK config: %w", err)
	}

	return &documentStore{
		s3Client: s3.NewFromConfig(cfg),
		bucket:   bucketName,
	}, nil
}

// Objects are keyed "<collection>/<id>".
func objectKey(collection, id string) string {
	return collection + "/" + id
}

func (s *documentStore) Create(ctx context.Context, collection string, record any) (string, error) {
	if err := jsondoc.CheckCollection(collection); err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrWriteFailure, err)
	}
	id := jsondoc.NewID()
	data, err := jsondoc.Marshal(id, record)
	if err != nil {
		return "", err
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey(collection, id.String())),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("%w: upload document: %v", core.ErrWriteFailure, err)
	}
	logrus.WithFields(logrus.Fields{
		"bucket":      s.bucket,
		"document_id": id.String(),
	}).Debug("Document created")
	return id.String(), nil
}

func (s *documentStore) Find(ctx context.Context, collection string, filter core.Filter, limit int64) ([]core.Document, error) {
	if err := jsondoc.CheckCollection(collection); err != nil {
		return nil, err
	}
	docs := []core.Document{}
	if limit <= 0 {
		return docs, nil
	}

	if id, ok := jsondoc.IDFilter(filter); ok {
		doc, err := s.get(ctx, objectKey(collection, id.String()))
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		if core.Match(doc, filter) {
			docs = append(docs, doc)
		}
		return docs, nil
	}

	// S3 lists keys in ascending order, which for ULIDs is creation order.
	paginator := s3.NewListObjectsV2Paginator(s.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(collection + "/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		for _, object := range page.Contents {
			doc, err := s.get(ctx, aws.ToString(object.Key))
			if err != nil {
				logrus.WithField("key", aws.ToString(object.Key)).WithError(err).Warn("Skipping unreadable document")
				continue
			}
			if core.Match(doc, filter) {
				docs = append(docs, doc)
			}
			if int64(len(docs)) >= limit {
				return docs, nil
			}
		}
	}
	return docs, nil
}

func (s *documentStore) get(ctx context.Context, key string) (core.Document, error) {
	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read document data: %w", err)
	}
	return jsondoc.Unmarshal(data)
}

func (s *documentStore) ParseID(id string) (any, error)     { return jsondoc.ParseID(id) }
func (s *documentStore) FormatID(native any) (string, bool) { return jsondoc.FormatID(native) }

func (s *documentStore) Name() string    { return s.bucket }
func (s *documentStore) Connected() bool { return s.s3Client != nil }

func (s *documentStore) Collections(ctx context.Context) ([]string, error) {
	out, err := s.s3Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Delimiter: aws.String("/"),
	})
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, prefix := range out.CommonPrefixes {
		names = append(names, strings.TrimSuffix(aws.ToString(prefix.Prefix), "/"))
	}
	return names, nil
}

func (s *documentStore) Close(ctx context.Context) error { return nil }
