// Package coverage turns joined stock/sales/inbound state into an ordered
// low-coverage alert list and renders it as a digest message. It is pure
// computation; persistence and notification live elsewhere.
package coverage

import (
	"sort"
	"time"

	"github.com/yiqitools/stock-alerts/internal/domain"
)

// DefaultTargetDays is the coverage threshold under which a SKU is alerted.
const DefaultTargetDays = 30.0

// Engine evaluates coverage for joined per-SKU inputs. The clock is injected
// so inbound suppression is deterministic under test.
type Engine struct {
	targetDays float64
	now        func() time.Time
}

func NewEngine(targetDays float64, now func() time.Time) *Engine {
	if targetDays <= 0 {
		targetDays = DefaultTargetDays
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{targetDays: targetDays, now: now}
}

// Evaluate computes coverage-in-days per SKU and returns the alerts ordered
// most urgent (lowest coverage) first; ties keep input order.
//
// A SKU with zero sales velocity is never alerted: with nothing selling it
// cannot stock out, whatever the stock level reads. A SKU whose next inbound
// shipment lands while stock still covers demand is suppressed too, however
// low its coverage.
func (e *Engine) Evaluate(inputs []domain.CoverageInput) []domain.Alert {
	today := civilDay(e.now())

	var alerts []domain.Alert
	for _, in := range inputs {
		perDay := in.Sales30d / 30.0
		if perDay <= 0 {
			continue
		}
		coverage := in.Stock / perDay

		if in.NextInboundDate != nil {
			daysUntil := daysBetween(today, civilDay(*in.NextInboundDate))
			if daysUntil >= 0 && float64(daysUntil) <= coverage {
				continue
			}
		}

		if coverage < e.targetDays {
			alerts = append(alerts, domain.Alert{
				SKU:             in.SKU,
				CoverageDays:    coverage,
				Stock:           in.Stock,
				Sales30d:        in.Sales30d,
				NextInboundDate: in.NextInboundDate,
			})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].CoverageDays < alerts[j].CoverageDays
	})
	return alerts
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns b-a in whole days; negative when b is in the past.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
