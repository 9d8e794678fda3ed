// Package report renders ledger query results as fixed-width text tables
// for monospaced chat replies.
package report

import (
	"sort"
	"strings"

	"github.com/franballerio/moneyMate/internal/core"
)

// EmptyMessage is returned instead of an empty table.
const EmptyMessage = "no items for this period"

const (
	columnGap  = "  "
	totalLabel = "Total:"
)

// FormatItemized renders one line per expense with a trailing total row.
// Column widths come from the widest cell in each column, header and total
// label included, so the output is stable for a given row set.
func FormatItemized(rows []core.Expense, title string) string {
	if len(rows) == 0 {
		return EmptyMessage
	}

	table := make([][]string, len(rows))
	total := core.Money{}
	for i, e := range rows {
		table[i] = []string{capitalize(e.Item), capitalize(e.Category), e.Amount.String()}
		total = total.Add(e.Amount)
	}
	return render(title, []string{"Item", "Category", "Amount"}, table, total)
}

// FormatAggregated renders per-category sums plus a grand total. Rows are
// grouped by category as stored; the display name is capitalized.
func FormatAggregated(rows []core.Expense, title string) string {
	if len(rows) == 0 {
		return EmptyMessage
	}

	sums := make(map[string]core.Money)
	for _, e := range rows {
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}
	categories := make([]string, 0, len(sums))
	for c := range sums {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	table := make([][]string, len(categories))
	total := core.Money{}
	for i, c := range categories {
		table[i] = []string{capitalize(c), sums[c].String()}
		total = total.Add(sums[c])
	}
	return render(title, []string{"Category", "Amount"}, table, total)
}

// render lays out a table whose last column is a right-justified amount;
// all other columns are left-justified text.
func render(title string, headers []string, rows [][]string, total core.Money) string {
	cols := len(headers)
	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	if len(totalLabel) > widths[0] {
		widths[0] = len(totalLabel)
	}
	if len(total.String()) > widths[cols-1] {
		widths[cols-1] = len(total.String())
	}

	lineWidth := len(columnGap) * (cols - 1)
	for _, w := range widths {
		lineWidth += w
	}
	separator := strings.Repeat("-", lineWidth)

	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString(separator)
	b.WriteByte('\n')
	writeRow(&b, headers, widths)
	b.WriteString(separator)
	b.WriteByte('\n')
	for _, row := range rows {
		writeRow(&b, row, widths)
	}
	b.WriteString(separator)
	b.WriteByte('\n')

	totalRow := make([]string, cols)
	totalRow[0] = totalLabel
	totalRow[cols-1] = total.String()
	writeRow(&b, totalRow, widths)

	return strings.TrimRight(b.String(), "\n")
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	last := len(widths) - 1
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(columnGap)
		}
		if i == last {
			b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
			b.WriteString(cell)
		} else {
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
		}
	}
	b.WriteByte('\n')
}

// capitalize upper-cases the first byte for display. Stored records keep
// the user's original case; this is presentation only.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
