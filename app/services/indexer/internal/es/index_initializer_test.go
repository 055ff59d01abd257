package es

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"SwapIt/app/services/indexer/internal/es/estest"
)

func TestEnsureProductIndexCreatesOnce(t *testing.T) {
	srv := estest.NewServer(t)
	client := srv.Client(t)
	params := ProductIndexParams{IndexName: "products", NumberOfShards: 1}

	created, err := EnsureProductIndex(context.Background(), client, params)
	if err != nil || !created {
		t.Fatalf("first ensure: created=%v err=%v", created, err)
	}
	raw, ok := srv.Mapping("products")
	if !ok {
		t.Fatalf("index was not created")
	}
	var mapping struct {
		Properties map[string]struct {
			Type string `json:"type"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(raw, &mapping); err != nil {
		t.Fatalf("decode mapping: %v", err)
	}
	if mapping.Properties["productId"].Type != "keyword" || mapping.Properties["price"].Type != "double" {
		t.Fatalf("unexpected mapping %s", raw)
	}

	created, err = EnsureProductIndex(context.Background(), client, params)
	if err != nil || created {
		t.Fatalf("second ensure: created=%v err=%v", created, err)
	}
}

func TestEnsureProductIndexRejectsForeignMapping(t *testing.T) {
	srv := estest.NewServer(t)
	srv.SeedIndex("products", map[string]any{
		"product_id": map[string]any{"type": "long"},
		"price":      map[string]any{"type": "double"},
	})

	_, err := EnsureProductIndex(context.Background(), srv.Client(t), ProductIndexParams{IndexName: "products"})
	if !errors.Is(err, ErrIncompatibleMapping) {
		t.Fatalf("expected ErrIncompatibleMapping, got %v", err)
	}
}

func TestEnsureProductIndexNeedsClient(t *testing.T) {
	if _, err := EnsureProductIndex(context.Background(), nil, ProductIndexParams{IndexName: "products"}); err == nil {
		t.Fatalf("expected an error without a client")
	}
}
