package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/peliculas/peliculas/internal/apperr"
)

// searchFields are the indexed fields a lexical query matches against.
var searchFields = []string{"title", "original_title", "description"}

// Elasticsearch implements Searcher over an Elasticsearch cluster using a
// multi_match query.
type Elasticsearch struct {
	client *elasticsearch.Client
	index  string
	logger *slog.Logger
}

// NewElasticsearch creates a connected search client for the given index.
func NewElasticsearch(addresses []string, index string) (*Elasticsearch, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
	})
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to create elasticsearch client")
	}

	return &Elasticsearch{
		client: client,
		index:  index,
		logger: slog.Default().With("component", "elasticsearch"),
	}, nil
}

// SearchMovies runs a multi_match query over the movie fields and returns up
// to limit documents in relevance order.
func (e *Elasticsearch) SearchMovies(ctx context.Context, query string, limit int) ([]MovieDoc, error) {
	if query == "" {
		return nil, apperr.InvalidArgument("search query must not be empty")
	}
	if limit < 1 {
		return nil, apperr.InvalidArgumentf("limit must be positive, got %d", limit)
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": searchFields,
			},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("failed to encode search query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(&buf),
		e.client.Search.WithSize(limit),
	)
	if err != nil {
		e.logger.Error("search request failed", "query", query, "error", err)
		return nil, apperr.Unavailable(err, "search request failed")
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		e.logger.Error("search returned error status", "status", res.StatusCode)
		return nil, apperr.New(apperr.KindUnavailable,
			fmt.Sprintf("search failed with status %d: %s", res.StatusCode, msg))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source MovieDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperr.Unavailable(err, "failed to decode search response")
	}

	docs := make([]MovieDoc, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, nil
}

// IndexMovie writes a movie document to the index. Used by the ingest tool.
func (e *Elasticsearch) IndexMovie(ctx context.Context, doc MovieDoc) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode movie document: %w", err)
	}

	res, err := e.client.Index(
		e.index,
		bytes.NewReader(payload),
		e.client.Index.WithContext(ctx),
		e.client.Index.WithDocumentID(doc.ExternalID),
	)
	if err != nil {
		return apperr.Unavailablef(err, "failed to index movie %s", doc.ExternalID)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperr.New(apperr.KindUnavailable,
			fmt.Sprintf("indexing movie %s failed with status %d", doc.ExternalID, res.StatusCode))
	}
	return nil
}
