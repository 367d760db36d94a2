package tierbank

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

// writeStatementPDF renders the account's movements over the last 30 days
// as a simple tabular PDF.
func writeStatementPDF(w io.Writer, acct *Account, entries []LedgerEntry, asOf time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Account Statement")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Account: %s", acct.Number))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Tier: %s", acct.Tier))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", asOf.Format(time.RFC3339)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Balance: %s", acct.Balance.StringFixed(2)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 7, "Date", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Type", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, e := range entries {
		typ := "deposit"
		if e.Amount.Sign() < 0 {
			typ = "withdrawal"
		}
		pdf.CellFormat(60, 7, e.At.Format("2006-01-02 15:04:05"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, typ, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, e.Amount.Abs().StringFixed(2), "1", 1, "R", false, 0, "")
	}

	return pdf.Output(w)
}
