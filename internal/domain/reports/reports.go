package reports

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"hearth/internal/domain/bonus"
	"hearth/internal/domain/ledger"
)

type ResultSource interface {
	ListResults(ctx context.Context, ownerID string, filter bonus.ResultFilter) ([]bonus.Result, error)
	GetConfig(ctx context.Context, ownerID, configID string) (bonus.Config, error)
}

type CashflowSource interface {
	MonthlyCashflow(ctx context.Context, ownerID string, months int) ([]ledger.MonthlyCashflow, error)
}

type Service struct {
	results      ResultSource
	cashflow     CashflowSource
	statementDir string
}

func NewService(results ResultSource, cashflow CashflowSource, statementDir string) *Service {
	return &Service{results: results, cashflow: cashflow, statementDir: statementDir}
}

// BonusStatementPDF renders every bonus result in the period as one statement.
// When a statement directory is configured a copy is kept on disk.
func (s *Service) BonusStatementPDF(ctx context.Context, ownerID string, from, to time.Time) ([]byte, error) {
	results, err := s.results.ListResults(ctx, ownerID, bonus.ResultFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	configNames := make(map[string]string)
	for _, r := range results {
		if _, ok := configNames[r.ConfigID]; ok {
			continue
		}
		cfg, err := s.results.GetConfig(ctx, ownerID, r.ConfigID)
		if err != nil {
			configNames[r.ConfigID] = r.ConfigID
			continue
		}
		configNames[r.ConfigID] = cfg.Name
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Bonus Statement")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(55, 8, "Bonus", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Metric", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Threshold", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Status", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	total := decimal.Zero
	applied := decimal.Zero
	for _, r := range results {
		pdf.CellFormat(55, 8, configNames[r.ConfigID], "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", r.Details.MetricValue), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", r.Details.ThresholdValue), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, r.AppliedAmount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, string(r.Status), "1", 1, "L", false, 0, "")
		total = total.Add(r.AppliedAmount)
		if r.Status == bonus.StatusApplied {
			applied = applied.Add(r.AppliedAmount)
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total calculated: %s", total.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total applied: %s", applied.StringFixed(2)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	if s.statementDir != "" {
		if err := s.saveStatement(ownerID, from, to, buf.Bytes()); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (s *Service) saveStatement(ownerID string, from, to time.Time, data []byte) error {
	if err := os.MkdirAll(s.statementDir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("%s_%s_%s.pdf", ownerID, from.Format("20060102"), to.Format("20060102"))
	return os.WriteFile(filepath.Join(s.statementDir, name), data, 0o600)
}

func (s *Service) Cashflow(ctx context.Context, ownerID string, months int) ([]ledger.MonthlyCashflow, error) {
	return s.cashflow.MonthlyCashflow(ctx, ownerID, months)
}
