// File: internal/article/search.go
package article

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dentalhub_backend/internal/platform/search"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// searchIndex queries the articles index and returns matching slugs with the
// total hit count.
func (s *Service) searchIndex(ctx context.Context, query string, page, pageSize int) ([]string, int64, error) {
	from := (page - 1) * pageSize
	if from < 0 {
		from = 0
	}

	body := map[string]interface{}{
		"from": from,
		"size": pageSize,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"title^3", "summary^2", "body", "tags"},
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"status": "approved"},
				},
			},
		},
		"_source": []string{"slug"},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, 0, fmt.Errorf("encoding search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{search.ArticlesIndexName},
		Body:  &buf,
	}
	res, err := req.Do(ctx, s.esClient.Client)
	if err != nil {
		return nil, 0, fmt.Errorf("executing article search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, 0, fmt.Errorf("article search failed: status %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					Slug string `json:"slug"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("decoding search response: %w", err)
	}

	slugs := make([]string, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		slugs = append(slugs, hit.Source.Slug)
	}
	return slugs, parsed.Hits.Total.Value, nil
}

// bulkIndex writes all given articles to the index in one bulk request.
func (s *Service) bulkIndex(ctx context.Context, articles []Article) error {
	var buf bytes.Buffer
	for i := range articles {
		meta := map[string]interface{}{
			"index": map[string]interface{}{
				"_index": search.ArticlesIndexName,
				"_id":    articles[i].ID.String(),
			},
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("encoding bulk metadata: %w", err)
		}
		docJSON, err := json.Marshal(ToSearchDocument(&articles[i]))
		if err != nil {
			return fmt.Errorf("encoding bulk document for article %s: %w", articles[i].ID, err)
		}
		buf.Write(metaJSON)
		buf.WriteByte('\n')
		buf.Write(docJSON)
		buf.WriteByte('\n')
	}

	req := esapi.BulkRequest{
		Body:    strings.NewReader(buf.String()),
		Refresh: "true",
	}
	res, err := req.Do(ctx, s.esClient.Client)
	if err != nil {
		return fmt.Errorf("executing bulk index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk index failed: status %s", res.Status())
	}

	var parsed struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decoding bulk response: %w", err)
	}
	if parsed.Errors {
		return fmt.Errorf("bulk index reported item-level errors")
	}
	return nil
}
