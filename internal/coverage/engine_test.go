package coverage

import (
	"testing"
	"time"

	"github.com/yiqitools/stock-alerts/internal/domain"
)

var testToday = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewEngine(DefaultTargetDays, func() time.Time { return testToday })
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestEvaluate_ZeroVelocityNeverAlerts(t *testing.T) {
	inputs := []domain.CoverageInput{
		{SKU: "Z-1", Stock: 0, Sales30d: 0},   // out of stock but nothing sells
		{SKU: "Z-2", Stock: 500, Sales30d: 0}, // plenty of stock, nothing sells
	}
	if alerts := testEngine().Evaluate(inputs); len(alerts) != 0 {
		t.Fatalf("alerts = %+v, want none for zero-velocity SKUs", alerts)
	}
}

func TestEvaluate_InboundSuppression(t *testing.T) {
	// stock=10, sales_30d=30 -> 1/day -> coverage = 10 days
	cases := []struct {
		name      string
		inbound   *time.Time
		wantAlert bool
	}{
		{"arrives before stockout", datePtr(2026, 8, 6), false}, // 5 days <= 10
		{"arrives on the edge", datePtr(2026, 8, 11), false},    // 10 days <= 10
		{"arrives too late", datePtr(2026, 8, 16), true},        // 15 days > 10
		{"overdue shipment", datePtr(2026, 7, 25), true},        // negative days never suppress
		{"no inbound", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inputs := []domain.CoverageInput{
				{SKU: "S-1", Stock: 10, Sales30d: 30, NextInboundDate: tc.inbound},
			}
			alerts := testEngine().Evaluate(inputs)
			if got := len(alerts) == 1; got != tc.wantAlert {
				t.Errorf("alerted = %v, want %v", got, tc.wantAlert)
			}
		})
	}
}

func TestEvaluate_ThresholdAndFields(t *testing.T) {
	inputs := []domain.CoverageInput{
		{SKU: "OK", Stock: 300, Sales30d: 30},  // coverage 300 days
		{SKU: "EDGE", Stock: 30, Sales30d: 30}, // exactly 30, not under
		{SKU: "LOW", Stock: 12, Sales30d: 60},  // coverage 6 days
	}
	alerts := testEngine().Evaluate(inputs)
	if len(alerts) != 1 {
		t.Fatalf("alerts = %+v, want exactly LOW", alerts)
	}
	a := alerts[0]
	if a.SKU != "LOW" || a.CoverageDays != 6 || a.Stock != 12 || a.Sales30d != 60 {
		t.Errorf("alert = %+v", a)
	}
}

func TestEvaluate_OrderingMostUrgentFirst(t *testing.T) {
	inputs := []domain.CoverageInput{
		{SKU: "A", Stock: 2, Sales30d: 30}, // 2 days
		{SKU: "B", Stock: 5, Sales30d: 30}, // 5 days
		{SKU: "C", Stock: 1, Sales30d: 30}, // 1 day
	}
	alerts := testEngine().Evaluate(inputs)
	got := []string{alerts[0].SKU, alerts[1].SKU, alerts[2].SKU}
	want := []string{"C", "A", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	for i := 1; i < len(alerts); i++ {
		if alerts[i].CoverageDays < alerts[i-1].CoverageDays {
			t.Fatal("coverage not non-decreasing")
		}
	}
}

func TestEvaluate_TiesKeepInputOrder(t *testing.T) {
	inputs := []domain.CoverageInput{
		{SKU: "T-1", Stock: 3, Sales30d: 30},
		{SKU: "T-2", Stock: 3, Sales30d: 30},
		{SKU: "T-3", Stock: 3, Sales30d: 30},
	}
	alerts := testEngine().Evaluate(inputs)
	for i, want := range []string{"T-1", "T-2", "T-3"} {
		if alerts[i].SKU != want {
			t.Fatalf("tie order broken: %+v", alerts)
		}
	}
}
