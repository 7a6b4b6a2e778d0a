// Package pms holds the thin wire clients for each property-management
// system. Clients only fetch and flatten: every record leaves here as a
// source-shaped field map, and all mapping knowledge stays in normalize.
package pms

import (
	"context"
	"fmt"

	"pms_metrics/config"
	"pms_metrics/httputil"
	"pms_metrics/models"
)

type Client interface {
	Source() models.SourceSystem
	FetchProperty(ctx context.Context, propertyID string) (models.RawRecord, error)
	FetchUnits(ctx context.Context, propertyID string) ([]models.RawRecord, error)
	FetchResidents(ctx context.Context, propertyID string) ([]models.RawRecord, error)
	FetchLeases(ctx context.Context, propertyID string) ([]models.RawRecord, error)
}

func NewClient(cfg *config.SourceConfig, clients *httputil.Clients) (Client, error) {
	switch cfg.System {
	case "yardi":
		return NewYardiClient(cfg, clients), nil
	case "realpage":
		return NewRealPageClient(cfg, clients), nil
	default:
		return nil, fmt.Errorf("unknown PMS system: %s", cfg.System)
	}
}
