// File: internal/platform/search/index.go
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// ArticlesIndexName is the index holding approved articles.
const ArticlesIndexName = "articles"

func defineArticlesMapping() (string, error) {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"title":      map[string]interface{}{"type": "text"},
				"summary":    map[string]interface{}{"type": "text"},
				"body":       map[string]interface{}{"type": "text"},
				"slug":       map[string]interface{}{"type": "keyword"},
				"tags":       map[string]interface{}{"type": "keyword"},
				"owner_id":   map[string]interface{}{"type": "keyword"},
				"status":     map[string]interface{}{"type": "keyword"},
				"created_at": map[string]interface{}{"type": "date"},
				"updated_at": map[string]interface{}{"type": "date"},
			},
		},
	}
	mappingBytes, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("error marshalling articles mapping to JSON: %w", err)
	}
	return string(mappingBytes), nil
}

// CreateArticlesIndexIfNotExists creates the articles index with its mapping
// if it does not already exist. A nil client is a no-op.
func CreateArticlesIndexIfNotExists(client *ESClientWrapper, logger *zap.Logger) error {
	if client == nil {
		return nil
	}
	ctx := context.Background()
	log := logger.Named("elasticsearch_index_setup")

	existsReq := esapi.IndicesExistsRequest{Index: []string{ArticlesIndexName}}
	res, err := existsReq.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("error checking if articles index exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		log.Info("Articles index already exists", zap.String("index_name", ArticlesIndexName))
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("error checking if articles index exists: status %s", res.Status())
	}

	mappingJSON, err := defineArticlesMapping()
	if err != nil {
		return err
	}

	createReq := esapi.IndicesCreateRequest{
		Index: ArticlesIndexName,
		Body:  strings.NewReader(mappingJSON),
	}
	createRes, err := createReq.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("error creating articles index %s: %w", ArticlesIndexName, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create articles index %s: status %s", ArticlesIndexName, createRes.Status())
	}
	log.Info("Articles index created", zap.String("index_name", ArticlesIndexName))
	return nil
}

// IndexDocument upserts a single JSON document. A nil client is a no-op.
func IndexDocument(ctx context.Context, client *ESClientWrapper, index, docID, docJSON string) error {
	if client == nil {
		return nil
	}
	req := esapi.IndexRequest{
		Index:      index,
		DocumentID: docID,
		Body:       strings.NewReader(docJSON),
	}
	res, err := req.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("indexing document %s into %s: %w", docID, index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("indexing document %s into %s: status %s", docID, index, res.Status())
	}
	return nil
}

// DeleteDocument removes a document, tolerating 404. A nil client is a no-op.
func DeleteDocument(ctx context.Context, client *ESClientWrapper, index, docID string) error {
	if client == nil {
		return nil
	}
	req := esapi.DeleteRequest{
		Index:      index,
		DocumentID: docID,
	}
	res, err := req.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("deleting document %s from %s: %w", docID, index, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("deleting document %s from %s: status %s", docID, index, res.Status())
	}
	return nil
}
