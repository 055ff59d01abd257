package es

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
)

// ErrIncompatibleMapping indicates an existing index cannot hold product documents keyed by productId.
var ErrIncompatibleMapping = errors.New("product index mapping incompatible")

// ProductIndexParams describes the configuration required to ensure the product index exists.
type ProductIndexParams struct {
	IndexName        string
	NumberOfShards   int
	NumberOfReplicas int
}

// EnsureProductIndex creates the product index when missing and checks the mapping of an existing one.
// It reports whether the index was created by this call.
func EnsureProductIndex(ctx context.Context, client *elasticsearch.Client, params ProductIndexParams) (bool, error) {
	if client == nil || strings.TrimSpace(params.IndexName) == "" {
		return false, fmt.Errorf("missing elasticsearch client or index name")
	}

	shards := params.NumberOfShards
	if shards <= 0 {
		shards = 1
	}
	replicas := params.NumberOfReplicas
	if replicas < 0 {
		replicas = 0
	}

	existsRes, err := client.Indices.Exists(
		[]string{params.IndexName},
		client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("check index existence: %w", err)
	}
	defer existsRes.Body.Close()

	if existsRes.StatusCode == http.StatusNotFound {
		body, err := buildProductIndexDefinition(shards, replicas)
		if err != nil {
			return false, err
		}

		createRes, err := client.Indices.Create(
			params.IndexName,
			client.Indices.Create.WithContext(ctx),
			client.Indices.Create.WithBody(bytes.NewReader(body)),
		)
		if err != nil {
			return false, fmt.Errorf("create index: %w", err)
		}
		defer createRes.Body.Close()

		if createRes.IsError() {
			resp, _ := io.ReadAll(createRes.Body)
			// another indexer replica won the race
			if strings.Contains(string(resp), "resource_already_exists_exception") {
				return false, nil
			}
			return false, fmt.Errorf("create index status %s: %s", createRes.Status(), strings.TrimSpace(string(resp)))
		}
		return true, nil
	}

	if existsRes.IsError() {
		resp, _ := io.ReadAll(existsRes.Body)
		return false, fmt.Errorf("index existence status %s: %s", existsRes.Status(), strings.TrimSpace(string(resp)))
	}

	if !mappingCompatible(ctx, client, params.IndexName) {
		return false, ErrIncompatibleMapping
	}
	return false, nil
}

func buildProductIndexDefinition(shards, replicas int) ([]byte, error) {
	date := map[string]any{
		"type":   "date",
		"format": "strict_date_optional_time||epoch_millis",
	}
	definition := map[string]any{
		"settings": map[string]any{
			"number_of_shards":   shards,
			"number_of_replicas": replicas,
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"productId": map[string]any{
					"type": "keyword",
				},
				"userId": map[string]any{
					"type": "keyword",
				},
				"title": map[string]any{
					"type": "text",
					"fields": map[string]any{
						"keyword": map[string]any{
							"type":         "keyword",
							"ignore_above": 256,
						},
					},
				},
				"description": map[string]any{
					"type": "text",
				},
				"category": map[string]any{
					"type": "keyword",
				},
				"price": map[string]any{
					"type": "double",
				},
				"createdAt": date,
				"indexedAt": date,
			},
		},
	}

	payload, err := json.Marshal(definition)
	if err != nil {
		return nil, fmt.Errorf("encode index definition: %w", err)
	}
	return payload, nil
}

func mappingCompatible(ctx context.Context, client *elasticsearch.Client, indexName string) bool {
	res, err := client.Indices.GetMapping(
		client.Indices.GetMapping.WithContext(ctx),
		client.Indices.GetMapping.WithIndex(indexName),
	)
	if err != nil {
		return false
	}
	defer res.Body.Close()

	if res.IsError() {
		return false
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return false
	}

	var mapping map[string]struct {
		Mappings struct {
			Properties map[string]struct {
				Type string `json:"type"`
			} `json:"properties"`
		} `json:"mappings"`
	}
	if err := json.Unmarshal(data, &mapping); err != nil {
		return false
	}

	indexMapping, ok := mapping[indexName]
	if !ok {
		for _, v := range mapping {
			indexMapping = v
			ok = true
			break
		}
	}
	if !ok {
		return false
	}

	props := indexMapping.Mappings.Properties
	if props["productId"].Type != "keyword" {
		return false
	}
	switch props["price"].Type {
	case "double", "float", "scaled_float", "long", "integer":
		return true
	default:
		return false
	}
}
