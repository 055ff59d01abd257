package mq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"SwapIt/app/common/bus"
	"SwapIt/app/common/consts/biz"
	"SwapIt/app/services/indexer/internal/svc"

	"github.com/zeromicro/go-zero/core/logx"
)

// StartItemConsumer projects new listings into the search index. It blocks until ctx is done.
func StartItemConsumer(ctx context.Context, sc *svc.ServiceContext) error {
	if sc.ESClient == nil {
		logx.Infow("skip item consumer, elasticsearch client unavailable")
		return nil
	}
	return sc.Bus.Subscribe(ctx, bus.Binding{
		Queue:    biz.SearchQueue,
		Patterns: []string{bus.TypeItemCreated},
	}, HandleItemCreated(sc))
}

// HandleItemCreated upserts the listing under its product id, so a redelivered
// event rewrites the same document. Cluster outages are retried; a document
// the index refuses is dropped.
func HandleItemCreated(sc *svc.ServiceContext) bus.Handler {
	return func(ctx context.Context, env bus.Envelope) error {
		evt, ok := env.Event.(bus.ItemCreated)
		if !ok {
			return bus.Discard(fmt.Errorf("unexpected event %s", env.Type))
		}
		if err := upsertProductDocument(ctx, sc, evt, env.EmittedAt); err != nil {
			logx.WithContext(ctx).Errorw("upsert product document failed",
				logx.Field("productId", evt.ProductID),
				logx.Field("err", err),
			)
			return err
		}
		logx.WithContext(ctx).Infow("product indexed", logx.Field("productId", evt.ProductID))
		return nil
	}
}

func upsertProductDocument(ctx context.Context, sc *svc.ServiceContext, evt bus.ItemCreated, emittedAt time.Time) error {
	doc := map[string]any{
		"productId":   evt.ProductID,
		"userId":      evt.UserID,
		"title":       evt.Title,
		"description": evt.Description,
		"category":    evt.Category,
		"price":       evt.Price,
		"indexedAt":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if !emittedAt.IsZero() {
		doc["createdAt"] = emittedAt.UTC().Format(time.RFC3339Nano)
	}

	payload := map[string]any{
		"doc":           doc,
		"doc_as_upsert": true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return bus.Discard(fmt.Errorf("encode product document: %w", err))
	}

	res, err := sc.ESClient.Update(sc.ProductIndexName(), evt.ProductID, bytes.NewReader(body), sc.ESClient.Update.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es update call: %w", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	if !res.IsError() {
		return nil
	}
	err = fmt.Errorf("es update status %s: %s", res.Status(), strings.TrimSpace(string(respBody)))
	if retryable(res.StatusCode) {
		return err
	}
	return bus.Discard(err)
}

func retryable(status int) bool {
	return status >= http.StatusInternalServerError ||
		status == http.StatusTooManyRequests ||
		status == http.StatusRequestTimeout ||
		status == http.StatusConflict
}
