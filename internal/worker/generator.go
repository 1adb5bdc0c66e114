// Package worker generates monthly reports off the interactive path. A
// Generator performs one synchronous report build from a read-only snapshot
// of the stores; a Pool runs generators concurrently with a bounded limit.
package worker

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"bling/internal/core"
	"bling/internal/log"
	"bling/internal/report"
	"bling/internal/store"
)

// Generator builds one report end to end: snapshot stores, aggregate,
// assemble payload, render. It only reads from the stores.
type Generator struct {
	expenses store.ExpenseStore
	income   store.IncomeStore
	prefs    store.PreferencesStore
	renderer report.DocumentRenderer
	fallback *report.FallbackRenderer
	outDir   string
	logger   *log.Logger
}

// NewGenerator creates a report generator writing into outDir. renderer may
// be nil; rendering then goes straight to the tabular fallback.
func NewGenerator(
	expenses store.ExpenseStore,
	income store.IncomeStore,
	prefs store.PreferencesStore,
	renderer report.DocumentRenderer,
	logger *log.Logger,
	outDir string,
) *Generator {
	return &Generator{
		expenses: expenses,
		income:   income,
		prefs:    prefs,
		renderer: renderer,
		fallback: report.NewFallbackRenderer(logger),
		outDir:   outDir,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// Generate builds the report for month and returns the summary file path.
// The stores are snapshotted up front; renderers publish atomically, so an
// abandoned job never leaves a partial output file.
func (g *Generator) Generate(ctx context.Context, month core.MonthKey, jobID uuid.UUID) (string, error) {
	if err := month.Validate(); err != nil {
		return "", err
	}

	expenses, err := g.expenses.List(ctx, month)
	if err != nil {
		return "", fmt.Errorf("snapshotting expenses: %w", err)
	}
	incomeByMonth, err := g.income.List(ctx)
	if err != nil {
		return "", fmt.Errorf("snapshotting income: %w", err)
	}
	prefs, err := g.prefs.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("loading preferences: %w", err)
	}

	agg := core.Aggregate(expenses, incomeByMonth[month], month)
	payload := report.Build(agg, prefs)

	path := filepath.Join(g.outDir, fmt.Sprintf("report-%s.csv", month))
	if err := report.Render(ctx, g.renderer, g.fallback, payload, path); err != nil {
		return "", err
	}

	g.logger.InfoContext(ctx, "report generated",
		log.FieldJobID, jobID.String(),
		log.FieldMonth, month.String(),
		log.FieldReportPath, path,
	)
	return path, nil
}
