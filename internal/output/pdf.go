package output

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

const (
	pdfMarginLeft   = 15.0
	pdfMarginTop    = 15.0
	pdfMarginRight  = 15.0
	pdfMarginBottom = 15.0
	pdfContentWidth = 210.0 - pdfMarginLeft - pdfMarginRight
)

// PDFFormatter renders an A4 report with one page per scenario
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	report := &pdfReport{pdf: fpdf.New("P", "mm", "A4", "")}
	report.tr = report.pdf.UnicodeTranslatorFromDescriptor("")

	report.pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	report.pdf.SetAutoPageBreak(true, pdfMarginBottom)
	report.pdf.SetTitle("Retirement Income Analysis", true)

	report.addTitlePage(results)
	for _, sc := range results.Scenarios {
		if sc.Results == nil {
			continue
		}
		report.addScenarioPage(sc)
	}

	var buf bytes.Buffer
	if err := report.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type pdfReport struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (r *pdfReport) addTitlePage(results *domain.ScenarioComparison) {
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 28)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.Ln(40)
	r.pdf.CellFormat(pdfContentWidth, 15, "Retirement Income Analysis", "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "I", 11)
	r.pdf.SetTextColor(100, 100, 100)
	r.pdf.CellFormat(pdfContentWidth, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2 January 2006")), "", 1, "C", false, 0, "")
	r.pdf.Ln(15)

	if rec := AnalyzeScenarios(results); rec.ScenarioName != "" {
		r.pdf.SetFillColor(232, 248, 241)
		r.pdf.SetFont("Arial", "B", 12)
		r.pdf.SetTextColor(0, 0, 0)
		r.pdf.CellFormat(pdfContentWidth, 8, "Recommendation", "1", 1, "C", true, 0, "")
		r.pdf.SetFont("Arial", "", 11)
		r.pdf.CellFormat(pdfContentWidth, 7, r.tr(fmt.Sprintf("%s (Product %s): %s per year",
			rec.ScenarioName, rec.Product, FormatCurrency(rec.TotalIncome))), "LRB", 1, "C", true, 0, "")
		r.pdf.Ln(10)
	}

	r.pdf.SetFont("Arial", "B", 11)
	r.pdf.SetTextColor(0, 0, 0)
	r.pdf.CellFormat(pdfContentWidth, 7, "Key Assumptions", "", 1, "L", false, 0, "")
	r.pdf.SetFont("Arial", "", 10)
	for _, a := range assumptionsFor(results) {
		r.pdf.MultiCell(pdfContentWidth, 5, r.tr("- "+a), "", "L", false)
	}
}

func (r *pdfReport) addScenarioPage(sc domain.ScenarioResult) {
	res := sc.Results
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 16)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(pdfContentWidth, 10, r.tr("Scenario: "+sc.Name), "", 1, "L", false, 0, "")
	if sc.Description != "" {
		r.pdf.SetFont("Arial", "I", 10)
		r.pdf.SetTextColor(100, 100, 100)
		r.pdf.MultiCell(pdfContentWidth, 5, r.tr(sc.Description), "", "L", false)
	}
	r.pdf.Ln(4)

	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 0, 0)
	r.pdf.CellFormat(pdfContentWidth, 8, fmt.Sprintf("Recommended Product %s: %d%% Choice Income / %d%% Lifetime Income",
		res.RecommendedProduct, res.Allocation.ChoicePercent, res.Allocation.LifetimePercent), "", 1, "L", false, 0, "")
	r.pdf.Ln(2)

	rows := [][2]string{
		{"Superannuation", FormatCurrency(res.SuperBalance)},
		{"Other assets", FormatCurrency(res.NonSuperAssets)},
		{"Choice Income investment", FormatCurrency(res.Allocation.ChoiceAmount)},
		{"Lifetime Income investment", FormatCurrency(res.Allocation.LifetimeAmount)},
		{"Age Pension before", FormatCurrency(res.InitialPension.FinalPension)},
		{"Age Pension after", FormatCurrency(res.AdjustedPension.FinalPension)},
		{"Age Pension increase", FormatCurrency(res.PensionIncrease)},
		{"Eligibility", fmt.Sprintf("%s (%s)", res.Eligibility, FormatPercentage(res.PensionPercentage))},
		{"Lifetime Income (annual)", FormatCurrency(res.LifetimeIncomeAnnual)},
		{"Choice Income (annual average)", FormatCurrency(res.ChoiceIncomeAnnual)},
		{"Safety net", FormatCurrency(res.SafetyNetAmount)},
		{"Total retirement income", FormatCurrency(res.TotalRetirementIncome)},
	}

	r.pdf.SetDrawColor(200, 200, 200)
	r.pdf.SetFont("Arial", "", 10)
	for i, row := range rows {
		if i == len(rows)-1 {
			r.pdf.SetFont("Arial", "B", 10)
		}
		r.pdf.CellFormat(pdfContentWidth*0.6, 6, row[0], "1", 0, "L", false, 0, "")
		r.pdf.CellFormat(pdfContentWidth*0.4, 6, row[1], "1", 1, "R", false, 0, "")
	}

	if len(res.YearlyBreakdown) > 0 {
		r.addYearlyTable(res.YearlyBreakdown)
	}
}

func (r *pdfReport) addYearlyTable(years []domain.YearlyIncome) {
	r.pdf.Ln(6)
	r.pdf.SetFont("Arial", "B", 11)
	r.pdf.CellFormat(pdfContentWidth, 7, "Yearly Income", "", 1, "L", false, 0, "")

	widths := []float64{14, 14, 30, 32, 30, 30, 30}
	headers := []string{"Year", "Age", "Choice", "Balance", "Lifetime", "Age Pension", "Total"}

	r.pdf.SetFillColor(244, 241, 254)
	r.pdf.SetFont("Arial", "B", 9)
	for i, h := range headers {
		r.pdf.CellFormat(widths[i], 6, h, "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)

	r.pdf.SetFont("Arial", "", 9)
	for _, y := range years {
		cells := []string{
			fmt.Sprintf("%d", y.Year),
			fmt.Sprintf("%d", y.Age),
			FormatCurrency(y.ChoiceWithdrawal),
			FormatCurrency(y.ChoiceBalance),
			FormatCurrency(y.LifetimeIncome),
			FormatCurrency(y.AgePension),
			FormatCurrency(y.TotalIncome),
		}
		for i, c := range cells {
			align := "R"
			if i < 2 {
				align = "C"
			}
			r.pdf.CellFormat(widths[i], 5, c, "1", 0, align, false, 0, "")
		}
		r.pdf.Ln(-1)
	}
}
