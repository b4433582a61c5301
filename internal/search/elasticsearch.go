package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"liberia/internal/config"
	"liberia/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ReservaDocument is the searchable view of a reserva.
type ReservaDocument struct {
	ID              int64    `json:"id"`
	Status          string   `json:"status"`
	DateCreated     string   `json:"date_created,omitempty"`
	ClienteNombre   string   `json:"cliente_nombre,omitempty"`
	ClienteEmail    string   `json:"cliente_email,omitempty"`
	ClienteTelefono string   `json:"cliente_telefono,omitempty"`
	Hotel           string   `json:"hotel,omitempty"`
	TipoViaje       string   `json:"tipo_viaje,omitempty"`
	LlegadaFecha    string   `json:"llegada_fecha,omitempty"`
	LlegadaVuelo    string   `json:"llegada_vuelo,omitempty"`
	SalidaFecha     string   `json:"salida_fecha,omitempty"`
	SalidaVuelo     string   `json:"salida_vuelo,omitempty"`
	Choferes        []string `json:"choferes,omitempty"`
	Total           float64  `json:"total"`
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// DocumentFromReserva flattens a reserva for indexing. The manual hotel
// override takes precedence over the product name.
func DocumentFromReserva(r *models.Reserva) ReservaDocument {
	hotel := str(r.HotelManual)
	if hotel == "" {
		hotel = str(r.HotelNombre)
	}
	doc := ReservaDocument{
		ID:              r.ID,
		Status:          r.Status,
		DateCreated:     str(r.DateCreated),
		ClienteNombre:   str(r.ClienteNombre),
		ClienteEmail:    str(r.ClienteEmail),
		ClienteTelefono: str(r.ClienteTelefono),
		Hotel:           hotel,
		TipoViaje:       str(r.TipoViaje),
		LlegadaFecha:    str(r.LlegadaFecha),
		LlegadaVuelo:    str(r.LlegadaVuelo),
		SalidaFecha:     str(r.SalidaFecha),
		SalidaVuelo:     str(r.SalidaVuelo),
		Total:           r.Total,
	}
	for _, c := range []*string{r.LlegadaChofer, r.SalidaChofer} {
		if v := str(c); v != "" {
			doc.Choferes = append(doc.Choferes, v)
		}
	}
	return doc
}

// ElasticsearchClient indexes and searches reservas.
type ElasticsearchClient struct {
	client *elasticsearch.Client
	index  string
}

// NewElasticsearchClient создает клиент и индекс, если его еще нет
func NewElasticsearchClient(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	c := &ElasticsearchClient{client: es, index: cfg.Index}
	if err := c.ensureIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}
	return c, nil
}

func (c *ElasticsearchClient) ensureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{c.index}}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	text := map[string]interface{}{"type": "text", "analyzer": "spanish"}
	keyword := map[string]interface{}{"type": "keyword"}
	date := map[string]interface{}{"type": "date", "format": "strict_date_optional_time||yyyy-MM-dd", "ignore_malformed": true}

	mapping := map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":               map[string]interface{}{"type": "long"},
				"status":           keyword,
				"date_created":     date,
				"cliente_nombre":   text,
				"cliente_email":    keyword,
				"cliente_telefono": keyword,
				"hotel":            text,
				"tipo_viaje":       text,
				"llegada_fecha":    date,
				"llegada_vuelo":    keyword,
				"salida_fecha":     date,
				"salida_vuelo":     keyword,
				"choferes":         keyword,
				"total":            map[string]interface{}{"type": "scaled_float", "scaling_factor": 100},
			},
		},
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	createRes, err := esapi.IndicesCreateRequest{Index: c.index, Body: bytes.NewReader(body)}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()
	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	slog.Info("Created Elasticsearch index", "index", c.index)
	return nil
}

// IndexReserva upserts the document for r.
func (c *ElasticsearchClient) IndexReserva(ctx context.Context, r *models.Reserva) error {
	body, err := json.Marshal(DocumentFromReserva(r))
	if err != nil {
		return fmt.Errorf("failed to marshal reserva: %w", err)
	}

	res, err := esapi.IndexRequest{
		Index:      c.index,
		DocumentID: strconv.FormatInt(r.ID, 10),
		Body:       bytes.NewReader(body),
	}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to index reserva %d: %w", r.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing error: %s", res.String())
	}
	return nil
}

// DeleteReserva removes the document; a missing document is not an error.
func (c *ElasticsearchClient) DeleteReserva(ctx context.Context, id int64) error {
	res, err := esapi.DeleteRequest{Index: c.index, DocumentID: strconv.FormatInt(id, 10)}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to delete reserva %d: %w", id, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete error: %s", res.String())
	}
	return nil
}

// SearchResult is one page of hits.
type SearchResult struct {
	Total int64             `json:"total"`
	Hits  []ReservaDocument `json:"hits"`
}

// Search runs a fuzzy text query, optionally limited to trips on date.
func (c *ElasticsearchClient) Search(ctx context.Context, query, date string, page, pageSize int) (*SearchResult, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}

	body, err := json.Marshal(map[string]interface{}{
		"query": buildQuery(query, date),
		"sort": []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"date_created": map[string]interface{}{"order": "desc", "unmapped_type": "date"}},
		},
		"from": (page - 1) * pageSize,
		"size": pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := esapi.SearchRequest{Index: []string{c.index}, Body: bytes.NewReader(body)}.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var response struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source ReservaDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	result := &SearchResult{Total: response.Hits.Total.Value, Hits: make([]ReservaDocument, 0, len(response.Hits.Hits))}
	for _, hit := range response.Hits.Hits {
		result.Hits = append(result.Hits, hit.Source)
	}
	return result, nil
}

func buildQuery(query, date string) map[string]interface{} {
	var must []map[string]interface{}
	if query != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"cliente_nombre^3", "hotel^2", "cliente_email", "cliente_telefono", "llegada_vuelo", "salida_vuelo", "choferes", "tipo_viaje"},
				"fuzziness": "AUTO",
				"lenient":   true,
			},
		})
	}

	var filter []map[string]interface{}
	if date != "" {
		filter = append(filter, map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []map[string]interface{}{
					{"term": map[string]interface{}{"llegada_fecha": date}},
					{"term": map[string]interface{}{"salida_fecha": date}},
				},
				"minimum_should_match": 1,
			},
		})
	}

	if len(must) == 0 && len(filter) == 0 {
		return map[string]interface{}{"match_all": map[string]interface{}{}}
	}

	b := map[string]interface{}{}
	if len(must) > 0 {
		b["must"] = must
	}
	if len(filter) > 0 {
		b["filter"] = filter
	}
	return map[string]interface{}{"bool": b}
}
