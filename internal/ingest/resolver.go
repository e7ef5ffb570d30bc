// Column resolution for warehouse exports. The platform renames headers
// between exports (accents come and go, casing drifts), so resolution works
// on a case-folded, accent-stripped, whitespace-collapsed view of the header
// row against an ordered candidate list per canonical field. Earlier
// candidates win over later ones.
package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SalesSheetName is the fixed sheet label carrying the trailing-30-day sales figures.
const SalesSheetName = "Recompra"

// Candidate headers per canonical field. Accented and unaccented spellings are
// both listed even though folding makes them equivalent; the list doubles as
// documentation of what the platform has been seen to emit.
var (
	skuCandidates = []string{
		"articulo - sku", "artículo - sku",
		"sku", "seller sku", "seller_sku",
		"codigo", "código", "cod",
	}

	stockSingleCandidates = []string{
		"full", "stock disponible", "available",
		"qty", "quantity", "stock", "disponible",
	}
)

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldHeader reduces a raw header to its comparison form: trimmed, lowercased,
// accent-stripped, inner whitespace collapsed.
func foldHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", " ", " ", " ").Replace(s)
	if out, _, err := transform.String(accentStripper, s); err == nil {
		s = out
	}
	return strings.Join(strings.Fields(s), " ")
}

// resolveColumn returns the index of the first header matching the candidate
// list, honoring candidate order: an earlier synonym beats a later one even
// when both are present.
func resolveColumn(headers []string, candidates []string) (int, bool) {
	folded := make([]string, len(headers))
	for i, h := range headers {
		folded[i] = foldHeader(h)
	}
	for _, cand := range candidates {
		want := foldHeader(cand)
		for i, h := range folded {
			if h == want {
				return i, true
			}
		}
	}
	return -1, false
}

// depositColumns returns the indexes of all per-deposit stock columns
// ("Depósito 1", "deposito 2", ... or a bare "Deposito"), in header order.
func depositColumns(headers []string) []int {
	var out []int
	for i, h := range headers {
		f := foldHeader(h)
		if f == "deposito" {
			out = append(out, i)
			continue
		}
		if rest, ok := strings.CutPrefix(f, "deposito "); ok && isDigits(rest) {
			out = append(out, i)
		}
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// StockColumns is the resolved layout of a stock export. When any deposit
// columns are present they take priority and Single is ignored.
type StockColumns struct {
	SKU      int
	Deposits []int
	Single   int
}

// ResolveStockColumns maps the raw header row onto the canonical stock
// layout. Missing SKU or a missing stock source (neither deposits nor a
// single stock column) is a hard schema failure.
func ResolveStockColumns(headers []string) (StockColumns, error) {
	cols := StockColumns{SKU: -1, Single: -1}

	sku, ok := resolveColumn(headers, skuCandidates)
	if !ok {
		return cols, &SchemaError{Missing: "sku", Headers: headers}
	}
	cols.SKU = sku

	cols.Deposits = depositColumns(headers)
	if len(cols.Deposits) > 0 {
		return cols, nil
	}

	single, ok := resolveColumn(headers, stockSingleCandidates)
	if !ok {
		return cols, &SchemaError{Missing: "stock", Headers: headers}
	}
	cols.Single = single
	return cols, nil
}
