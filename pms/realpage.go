package pms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"pms_metrics/config"
	"pms_metrics/httputil"
	"pms_metrics/models"
)

// RealPageClient pulls entity sets from RealPage's OData endpoints. Every
// response row arrives as a JSON object and is flattened to string values so
// downstream code sees the same shape regardless of source.
type RealPageClient struct {
	cfg    *config.SourceConfig
	client *http.Client
}

func NewRealPageClient(cfg *config.SourceConfig, clients *httputil.Clients) *RealPageClient {
	return &RealPageClient{cfg: cfg, client: clients.API}
}

func (c *RealPageClient) Source() models.SourceSystem { return models.SourceRealPage }

func (c *RealPageClient) FetchProperty(ctx context.Context, propertyID string) (models.RawRecord, error) {
	records, err := c.query(ctx, "sites", propertyID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("realpage: site %s not found", propertyID)
	}
	return records[0], nil
}

func (c *RealPageClient) FetchUnits(ctx context.Context, propertyID string) ([]models.RawRecord, error) {
	return c.query(ctx, "units", propertyID)
}

func (c *RealPageClient) FetchResidents(ctx context.Context, propertyID string) ([]models.RawRecord, error) {
	return c.query(ctx, "residents", propertyID)
}

func (c *RealPageClient) FetchLeases(ctx context.Context, propertyID string) ([]models.RawRecord, error) {
	return c.query(ctx, "leases", propertyID)
}

func (c *RealPageClient) query(ctx context.Context, entitySet, siteID string) ([]models.RawRecord, error) {
	u, err := url.Parse(c.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("realpage endpoint: %w", err)
	}
	u.Path, err = url.JoinPath(u.Path, entitySet)
	if err != nil {
		return nil, fmt.Errorf("realpage endpoint: %w", err)
	}
	q := u.Query()
	q.Set("$filter", fmt.Sprintf("site_id eq '%s'", siteID))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.cfg.Username(), c.cfg.Password())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("realpage %s: %w", entitySet, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("realpage %s: status %d: %s", entitySet, resp.StatusCode, string(body))
	}

	var payload struct {
		Value []map[string]any `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("realpage %s: decode: %w", entitySet, err)
	}

	records := make([]models.RawRecord, 0, len(payload.Value))
	for _, row := range payload.Value {
		rec := models.RawRecord{}
		for k, v := range row {
			if v == nil {
				continue
			}
			rec[k] = fmt.Sprint(v)
		}
		records = append(records, rec)
	}
	return records, nil
}
