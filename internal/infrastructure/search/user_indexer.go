package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-account-service/internal/application"
)

// UserIndexer keeps user profiles in an Elasticsearch index.
type UserIndexer struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewUserIndexer(es *elasticsearch.Client, index string) *UserIndexer {
	return &UserIndexer{ES: es, IndexName: index}
}

func (i *UserIndexer) Index(ctx context.Context, doc application.UserDocument) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: i.IndexName, DocumentID: doc.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, i.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match over the public profile fields.
func (i *UserIndexer) Search(ctx context.Context, q string, size int) ([]application.UserDocument, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^2", "name", "lastname", "bio"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := i.ES.Search(i.ES.Search.WithContext(c), i.ES.Search.WithIndex(i.IndexName), i.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string                   `json:"_id"`
				Source application.UserDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]application.UserDocument, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		doc := h.Source
		if doc.ID == "" {
			doc.ID = h.ID
		}
		out = append(out, doc)
	}
	return out, nil
}

var _ application.UserIndexer = (*UserIndexer)(nil)
