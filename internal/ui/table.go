package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"arrowc/internal/capture"
	"arrowc/internal/closure"
	"arrowc/internal/contract"
	"arrowc/internal/diag"
	"arrowc/internal/driver"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func flavorStyle(f string) lipgloss.Style {
	switch f {
	case contract.Declared.String():
		return cellStyle.Foreground(lipgloss.Color("5"))
	case contract.Synthesized.String():
		return cellStyle.Foreground(lipgloss.Color("3"))
	}
	return cellStyle
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

// ContractTable renders contracts with their signatures. flavorCol is
// coloured by origin.
func ContractTable(reg *contract.Registry, contracts []*contract.Contract) string {
	const flavorCol = 2
	rows := make([][]string, 0, len(contracts))
	for _, c := range contracts {
		rows = append(rows, []string{c.Name, c.Signature(reg.Interner()), c.Flavor.String()})
	}
	t := newTable("CONTRACT", "SIGNATURE", "FLAVOR").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return headerStyle
			}
			if col == flavorCol {
				if r := dataRow(row); r >= 0 && r < len(rows) {
					return flavorStyle(rows[r][flavorCol])
				}
			}
			return cellStyle
		})
	return t.String()
}

// headerRow is the StyleFunc row of the headers; data rows follow it.
const headerRow = 0

// dataRow maps a StyleFunc row to an index into the rows slice.
func dataRow(row int) int {
	return row - headerRow - 1
}

// ClosureTable renders one line per closure description: its slot layout,
// contract and the stage it reached.
func ClosureTable(descs []closure.Description) string {
	rows := make([][]string, 0, len(descs))
	for _, d := range descs {
		rows = append(rows, []string{d.Name, slotLayout(d), d.Contract, d.Stage})
	}
	t := newTable("CLOSURE", "SLOTS", "CONTRACT", "STAGE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

func slotLayout(d closure.Description) string {
	if len(d.Slots) == 0 {
		return "-"
	}
	parts := make([]string, len(d.Slots))
	for i, s := range d.Slots {
		parts[i] = fmt.Sprintf("%s:%s %s", s.Name, s.Type, slotKindShort(s.Kind))
	}
	return strings.Join(parts, ", ")
}

func slotKindShort(kind string) string {
	switch kind {
	case capture.ByValueCopy.String():
		return "copy"
	case capture.SharedMutableBox.String():
		return "box"
	case capture.EnclosingInstanceRef.String():
		return "this"
	case capture.SelfRecursiveRef.String():
		return "self"
	}
	return kind
}

// Summary is a one-line account of a batch of units.
func Summary(units []*driver.Unit) string {
	var closures, errs, warnings int
	for _, u := range units {
		if u == nil {
			continue
		}
		if u.HIR != nil {
			closures += len(u.HIR.Closures)
		}
		for _, d := range u.Bag.Items() {
			switch d.Severity {
			case diag.SevError:
				errs++
			case diag.SevWarning:
				warnings++
			}
		}
	}
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("ok")
	if failed := driver.Failed(units); failed > 0 {
		status = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(fmt.Sprintf("%d failed", failed))
	}
	return fmt.Sprintf("%s: %d files, %d closures, %d errors, %d warnings",
		status, len(units), closures, errs, warnings)
}
