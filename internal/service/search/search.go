package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Skotchmaster/bus_tickets/internal/models"
	"github.com/elastic/go-elasticsearch/v9"
)

// Search runs a fuzzy multi_match over trip origin and destination.
func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Trip, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":     query,
						"fields":    []string{"origin^2", "destination"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"is_active": true},
				},
			},
		},
		"from": from,
		"size": size,
		"sort": []map[string]interface{}{
			{"departure_time": map[string]interface{}{"order": "asc"}},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Trip `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	trips := make([]models.Trip, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		trips[i] = hit.Source
	}
	return r.Hits.Total.Value, trips, nil
}

// IndexTrip upserts one trip document, keyed by its id.
func IndexTrip(ctx context.Context, es *elasticsearch.Client, index string, trip models.Trip) error {
	data, err := json.Marshal(trip)
	if err != nil {
		return fmt.Errorf("index trip: %w", err)
	}

	res, err := es.Index(
		index,
		bytes.NewReader(data),
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(trip.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index trip: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index trip: %s", res.Status())
	}
	return nil
}
