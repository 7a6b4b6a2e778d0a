package pms

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pms_metrics/config"
	"pms_metrics/httputil"
)

func TestDecodeRecords(t *testing.T) {
	body := `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <GetUnitInformationResponse>
      <Units>
        <Unit>
          <UnitNumber> 101 </UnitNumber>
          <FloorplanCode>A1</FloorplanCode>
          <MarketRent>1500.00</MarketRent>
        </Unit>
        <Unit>
          <UnitNumber>102</UnitNumber>
          <Vacant>true</Vacant>
        </Unit>
      </Units>
    </GetUnitInformationResponse>
  </soap:Body>
</soap:Envelope>`

	records, err := decodeRecords(strings.NewReader(body), "Unit")
	if err != nil {
		t.Fatalf("decodeRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["UnitNumber"] != "101" {
		t.Errorf("expected trimmed UnitNumber 101, got %q", records[0]["UnitNumber"])
	}
	if records[0]["MarketRent"] != "1500.00" {
		t.Errorf("unexpected MarketRent %q", records[0]["MarketRent"])
	}
	if records[1]["Vacant"] != "true" {
		t.Errorf("unexpected Vacant %q", records[1]["Vacant"])
	}
}

func TestYardiClientSOAPRequest(t *testing.T) {
	var gotAction, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.Header.Get("SOAPAction")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(`<Envelope><Body><Units><Unit><UnitNumber>101</UnitNumber></Unit></Units></Body></Envelope>`))
	}))
	defer srv.Close()

	t.Setenv("YARDI_USER", "svc")
	t.Setenv("YARDI_PASS", "secret")
	cfg := &config.SourceConfig{
		System:      "yardi",
		Endpoint:    srv.URL,
		UsernameEnv: "YARDI_USER",
		PasswordEnv: "YARDI_PASS",
		Database:    "db1",
		Platform:    "SQL Server",
	}

	client := NewYardiClient(cfg, httputil.NewClients())
	units, err := client.FetchUnits(context.Background(), "oak01")
	if err != nil {
		t.Fatalf("FetchUnits: %v", err)
	}
	if len(units) != 1 || units[0]["UnitNumber"] != "101" {
		t.Fatalf("unexpected units: %v", units)
	}
	if !strings.HasSuffix(gotAction, "/GetUnitInformation") {
		t.Errorf("unexpected SOAPAction %q", gotAction)
	}
	if !strings.Contains(gotBody, "<YardiPropertyId>oak01</YardiPropertyId>") {
		t.Errorf("property id missing from envelope: %s", gotBody)
	}
	if !strings.Contains(gotBody, "<Password>secret</Password>") {
		t.Errorf("credentials missing from envelope")
	}
}

func TestRealPageClientFlattensRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if filter := r.URL.Query().Get("$filter"); !strings.Contains(filter, "pine03") {
			t.Errorf("unexpected $filter %q", filter)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value":[{"unit_number":"201","market_rent":1450.5,"gross_sq_ft":900,"floor_plan_code":null}]}`))
	}))
	defer srv.Close()

	cfg := &config.SourceConfig{System: "realpage", Endpoint: srv.URL}
	client := NewRealPageClient(cfg, httputil.NewClients())

	units, err := client.FetchUnits(context.Background(), "pine03")
	if err != nil {
		t.Fatalf("FetchUnits: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	if units[0]["market_rent"] != "1450.5" {
		t.Errorf("numeric value not flattened: %q", units[0]["market_rent"])
	}
	if _, ok := units[0]["floor_plan_code"]; ok {
		t.Errorf("null field should be omitted")
	}
}

func TestNewClientUnknownSystem(t *testing.T) {
	_, err := NewClient(&config.SourceConfig{System: "entrata"}, httputil.NewClients())
	if err == nil {
		t.Fatal("expected error for unknown system")
	}
}
