package services

import (
	"testing"
	"time"

	"pms_metrics/config"
)

func TestParseReportKey(t *testing.T) {
	svc := &ReportService{cfg: &config.Config{
		Reports: config.ReportsConfig{InboxPrefix: "inbox/"},
	}}

	rk, err := svc.parseKey("inbox/yardi/oak01/2025-05-31/delinquency_may.xlsx")
	if err != nil {
		t.Fatalf("parseKey: %v", err)
	}
	if rk.Source != "yardi" || rk.PropertyID != "oak01" {
		t.Errorf("unexpected source/property: %+v", rk)
	}
	if !rk.ReportDate.Equal(time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected report date: %v", rk.ReportDate)
	}
	if rk.Filename != "delinquency_may.xlsx" {
		t.Errorf("unexpected filename: %q", rk.Filename)
	}
}

func TestReportTypeDispatch(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"delinquency_may.xlsx", reportDelinquency},
		{"Aging_Detail.xlsx", reportDelinquency},
		{"tradeout-q2.xlsx", reportTradeOut},
		{"lease_trade_outs.xlsx", reportTradeOut},
		{"leasing_activity.xlsx", reportActivity},
		{"rentroll_2026_01.xlsx", reportRentRoll},
		{"Rent_Roll_January.xlsx", reportRentRoll},
		{"budget_variance.xlsx", reportUnknown},
	}
	for _, c := range cases {
		if got := reportType(c.filename); got != c.want {
			t.Errorf("%s: expected %q, got %q", c.filename, c.want, got)
		}
	}
}

func TestParseReportKeyRejectsMalformed(t *testing.T) {
	svc := &ReportService{cfg: &config.Config{
		Reports: config.ReportsConfig{InboxPrefix: "inbox/"},
	}}

	cases := []string{
		"inbox/yardi/oak01/delinquency.xlsx",            // missing date segment
		"inbox/yardi/oak01/may-2025/delinquency.xlsx",   // unparseable date
		"inbox/yardi/oak01/2025-05-31/extra/report.xlsx", // too deep
	}
	for _, key := range cases {
		if _, err := svc.parseKey(key); err == nil {
			t.Errorf("expected error for key %q", key)
		}
	}
}
