package coverage

import (
	"fmt"
	"strings"

	"github.com/yiqitools/stock-alerts/internal/domain"
)

// digestMaxLines caps the rendered digest; past it only a "+N más" summary
// line is added. Notification channels truncate long messages, so the cap is
// part of the contract, not a nicety.
const digestMaxLines = 30

const (
	digestAllClear = "✅ Stock OK: ningún SKU con cobertura baja."
	digestHeader   = "⚠️ SKUs con cobertura baja (días de stock al ritmo de venta actual):"
)

// FormatDigest renders the ordered alert list as a line-oriented message
// ready for the notification channel.
func FormatDigest(alerts []domain.Alert) string {
	if len(alerts) == 0 {
		return digestAllClear
	}

	var b strings.Builder
	b.WriteString(digestHeader)
	for i, a := range alerts {
		if i == digestMaxLines {
			fmt.Fprintf(&b, "\n… +%d más", len(alerts)-digestMaxLines)
			break
		}
		fmt.Fprintf(&b, "\n%s: %.1f días (stock %.0f, v30 %.0f)", a.SKU, a.CoverageDays, a.Stock, a.Sales30d)
		if a.NextInboundDate != nil {
			fmt.Fprintf(&b, " | ingreso %s", a.NextInboundDate.Format("2006-01-02"))
		}
	}
	return b.String()
}
