package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
)

const (
	requestTimeout    = 3 * time.Second
	defaultSearchSize = 10
	maxSearchSize     = 50
)

// PostIndexer mirrors posts into an Elasticsearch index for full-text search.
type PostIndexer struct {
	ES    *elasticsearch.Client
	Index string
}

func NewPostIndexer(es *elasticsearch.Client, index string) *PostIndexer {
	return &PostIndexer{ES: es, Index: index}
}

// postsMapping is applied when the index is created by EnsureIndex.
const postsMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "keyword"},
      "title":      {"type": "text"},
      "body":       {"type": "text"},
      "author_id":  {"type": "keyword"},
      "created_at": {"type": "date"},
      "updated_at": {"type": "date"}
    }
  }
}`

// EnsureIndex creates the index with the posts mapping if it does not exist.
func (x *PostIndexer) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := esapi.IndicesExistsRequest{Index: []string{x.Index}}.Do(c, x.ES)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	switch {
	case res.StatusCode == 200:
		return nil
	case res.StatusCode != 404:
		return fmt.Errorf("es index exists: %s", res.Status())
	}

	res, err = esapi.IndicesCreateRequest{Index: x.Index, Body: strings.NewReader(postsMapping)}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// 400 here is a concurrent create racing us
	if res.IsError() && res.StatusCode != 400 {
		return fmt.Errorf("es create index: %s", res.Status())
	}
	return nil
}

type postDocument struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	AuthorID  string `json:"author_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (x *PostIndexer) Index(ctx context.Context, p *entity.Post) error {
	b, err := json.Marshal(postDocument{
		ID:        p.ID,
		Title:     p.Title,
		Body:      p.Body,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func (x *PostIndexer) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: id}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// 404 means it was never indexed
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match over title and body and returns matching post ids
// by relevance.
func (x *PostIndexer) Search(ctx context.Context, q string, size int) ([]string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []string{}, nil
	}
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "body"},
			},
		},
		"size":    size,
		"_source": false,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.Index), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
