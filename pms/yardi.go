package pms

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"

	"pms_metrics/config"
	"pms_metrics/httputil"
	"pms_metrics/models"
)

// YardiClient speaks Yardi's SOAP interface. Requests are hand-built
// envelopes; responses are flattened element-by-element into RawRecords so
// the normalizer owns all field-name knowledge.
type YardiClient struct {
	cfg    *config.SourceConfig
	client *http.Client
}

func NewYardiClient(cfg *config.SourceConfig, clients *httputil.Clients) *YardiClient {
	return &YardiClient{cfg: cfg, client: clients.API}
}

func (c *YardiClient) Source() models.SourceSystem { return models.SourceYardi }

func (c *YardiClient) FetchProperty(ctx context.Context, propertyID string) (models.RawRecord, error) {
	records, err := c.call(ctx, "GetPropertyConfigurations", propertyID, "Property")
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("yardi: property %s not found", propertyID)
	}
	return records[0], nil
}

func (c *YardiClient) FetchUnits(ctx context.Context, propertyID string) ([]models.RawRecord, error) {
	return c.call(ctx, "GetUnitInformation", propertyID, "Unit")
}

func (c *YardiClient) FetchResidents(ctx context.Context, propertyID string) ([]models.RawRecord, error) {
	return c.call(ctx, "GetResidents", propertyID, "Resident")
}

func (c *YardiClient) FetchLeases(ctx context.Context, propertyID string) ([]models.RawRecord, error) {
	return c.call(ctx, "GetResidentLeaseInformation", propertyID, "Lease")
}

const yardiNamespace = "http://tempuri.org/YSI.Interfaces.WebServices/ItfResidentData"

func (c *YardiClient) call(ctx context.Context, action, propertyID, recordTag string) ([]models.RawRecord, error) {
	var envelope bytes.Buffer
	envelope.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
	envelope.WriteString(`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">`)
	envelope.WriteString(`<soap:Body>`)
	fmt.Fprintf(&envelope, `<%s xmlns=%q>`, action, yardiNamespace)
	fmt.Fprintf(&envelope, `<UserName>%s</UserName>`, xmlEscape(c.cfg.Username()))
	fmt.Fprintf(&envelope, `<Password>%s</Password>`, xmlEscape(c.cfg.Password()))
	fmt.Fprintf(&envelope, `<Database>%s</Database>`, xmlEscape(c.cfg.Database))
	fmt.Fprintf(&envelope, `<Platform>%s</Platform>`, xmlEscape(c.cfg.Platform))
	fmt.Fprintf(&envelope, `<YardiPropertyId>%s</YardiPropertyId>`, xmlEscape(propertyID))
	fmt.Fprintf(&envelope, `</%s>`, action)
	envelope.WriteString(`</soap:Body></soap:Envelope>`)

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.Endpoint, &envelope)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", yardiNamespace+"/"+action)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yardi %s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("yardi %s: status %d: %s", action, resp.StatusCode, string(body))
	}

	return decodeRecords(resp.Body, recordTag)
}

// decodeRecords flattens every <recordTag> element's children into one
// RawRecord: child element name -> text content.
func decodeRecords(r io.Reader, recordTag string) ([]models.RawRecord, error) {
	dec := xml.NewDecoder(r)
	var records []models.RawRecord
	var current models.RawRecord
	var field string
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == recordTag {
				current = models.RawRecord{}
			} else if current != nil {
				field = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if current != nil && field != "" {
				text.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == recordTag && current != nil {
				records = append(records, current)
				current = nil
			} else if current != nil && t.Name.Local == field {
				current[field] = strings.TrimSpace(text.String())
				field = ""
			}
		}
	}
	return records, nil
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
