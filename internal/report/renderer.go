package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bling/internal/log"
)

// ErrRendererUnavailable classifies an absent or non-functional rendering
// collaborator. Callers fall back to the tabular renderer instead of
// failing the report.
var ErrRendererUnavailable = errors.New("document renderer unavailable")

// DocumentRenderer turns a payload into a document at path. Implementations
// live outside this package (PDF, chart image); FallbackRenderer is the
// built-in tabular one.
type DocumentRenderer interface {
	Render(ctx context.Context, payload Payload, path string) error
}

// Render drives primary and falls back to the tabular renderer when primary
// is nil or unavailable. Any other primary error is returned as is; the
// payload passed in is never modified.
func Render(ctx context.Context, primary DocumentRenderer, fallback *FallbackRenderer, payload Payload, path string) error {
	if primary != nil {
		err := primary.Render(ctx, payload, path)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrRendererUnavailable) {
			return fmt.Errorf("rendering report: %w", err)
		}
	}
	return fallback.Render(ctx, payload, path)
}

// FallbackRenderer writes the report as a pair of CSV files: a summary at
// the given path and a category breakdown alongside it. Both files are
// written to a temporary location and renamed into place.
type FallbackRenderer struct {
	logger *log.Logger
}

// NewFallbackRenderer creates the tabular renderer.
func NewFallbackRenderer(logger *log.Logger) *FallbackRenderer {
	return &FallbackRenderer{logger: logger.WithComponent(log.ComponentReport)}
}

// Render writes the summary CSV at path and the breakdown CSV next to it.
func (r *FallbackRenderer) Render(ctx context.Context, payload Payload, path string) error {
	if err := r.writeCSV(path, summaryRows(payload)); err != nil {
		return fmt.Errorf("writing report summary: %w", err)
	}

	breakdown := breakdownPath(path)
	if err := r.writeCSV(breakdown, categoryRows(payload)); err != nil {
		return fmt.Errorf("writing report breakdown: %w", err)
	}

	r.logger.InfoContext(ctx, "report rendered",
		log.FieldMonth, payload.Month,
		log.FieldReportPath, path,
	)
	return nil
}

func summaryRows(p Payload) [][]string {
	rows := [][]string{
		{"field", "value"},
		{"month", p.Month},
		{"total_income", p.TotalIncomeDisplay},
		{"total_expense", p.TotalExpenseDisplay},
		{"balance", p.BalanceDisplay},
	}
	if p.SavingsRateDefined {
		rows = append(rows, []string{"savings_rate_percent", fmt.Sprintf("%d", p.SavingsRatePercent)})
	}
	if p.NoData {
		rows = append(rows, []string{"no_data", "true"})
	}
	return rows
}

func categoryRows(p Payload) [][]string {
	rows := [][]string{{"category", "amount", "share_percent"}}
	for _, slice := range p.Pie {
		rows = append(rows, []string{
			slice.Label,
			slice.Amount.String(),
			fmt.Sprintf("%d", slice.SharePercent),
		})
	}
	return rows
}

// breakdownPath derives the breakdown file name from the summary path,
// e.g. report-2024-01.csv -> report-2024-01_categories.csv.
func breakdownPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_categories" + ext
}

func (r *FallbackRenderer) writeCSV(path string, rows [][]string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	name := tmp.Name()
	tmp = nil
	return os.Rename(name, path)
}
