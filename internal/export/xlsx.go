package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/remitmatch/internal/recon"
)

// Service produces XLSX bytes for reconciliation reports.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ReconciliationXLSX renders one row per check group: the extracted payment
// fields alongside the best-ranked invoice match and its evidence.
func (s *Service) ReconciliationXLSX(results []recon.GroupResult) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Reconciliation"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Check Number",
		"Pages",
		"Customer",
		"Check Amount",
		"Check Date",
		"Status",
		"Best Match Invoice",
		"Match Amount",
		"Match Score",
		"Match Reasons",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, res := range results {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		checkNumber := ""
		if res.CheckNumber != nil {
			checkNumber = *res.CheckNumber
		}
		write(1, checkNumber)
		write(2, pageList(res.Pages))

		customer := ""
		if name := res.Record.BestCustomerName(); name != "" {
			customer = name
		}
		write(3, customer)

		if res.Record.Amount != nil {
			write(4, fmt.Sprintf("%.2f", *res.Record.Amount))
		} else {
			write(4, "")
		}
		if res.Record.Date != nil {
			write(5, *res.Record.Date)
		} else {
			write(5, "")
		}
		write(6, string(res.Status))

		if len(res.Matches) > 0 {
			best := res.Matches[0]
			write(7, best.InvoiceNumber)
			write(8, fmt.Sprintf("%.2f", best.Amount))
			write(9, fmt.Sprintf("%.0f", best.Score))
			write(10, truncate(strings.Join(best.Reasons, "; "), 200))
		}

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 14) // check number
	_ = f.SetColWidth(sheet, "B", "B", 10) // pages
	_ = f.SetColWidth(sheet, "C", "C", 30) // customer
	_ = f.SetColWidth(sheet, "D", "E", 14) // amount/date
	_ = f.SetColWidth(sheet, "F", "F", 12) // status
	_ = f.SetColWidth(sheet, "G", "G", 24) // invoice
	_ = f.SetColWidth(sheet, "H", "I", 12) // match amount/score
	_ = f.SetColWidth(sheet, "J", "J", 60) // reasons

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func pageList(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprintf("%d", p+1) // 1-based for the report
	}
	return strings.Join(parts, ",")
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
