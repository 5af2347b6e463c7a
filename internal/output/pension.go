package output

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

// PensionReport is the outcome of a standalone means test
type PensionReport struct {
	Input  domain.PensionInput  `json:"input"`
	Result domain.PensionResult `json:"result"`
}

// FormatPensionReport renders a means test result as "console" or "json"
func FormatPensionReport(report PensionReport, format string) ([]byte, error) {
	switch NormalizeFormatName(format) {
	case "json":
		return json.MarshalIndent(report, "", "  ")
	case "console", "console-lite", "":
		return formatPensionConsole(report), nil
	default:
		return nil, fmt.Errorf("unsupported format for pension report: %s", format)
	}
}

func formatPensionConsole(report PensionReport) []byte {
	var buf bytes.Buffer
	in, res := report.Input, report.Result

	fmt.Fprintln(&buf, titleStyle.Render("AGE PENSION ESTIMATE"))
	fmt.Fprintln(&buf)

	homeOwner := "no"
	if in.HomeOwner {
		homeOwner = "yes"
	}
	writeLine(&buf, "Relationship status", string(in.RelationshipStatus))
	writeLine(&buf, "Home owner", homeOwner)
	writeLine(&buf, "Income per fortnight", FormatCurrency(in.IncomePerFortnight))
	writeLine(&buf, "Assessable assets", FormatCurrency(in.TotalAssets))
	fmt.Fprintln(&buf)

	writeLine(&buf, "Income test (annual)", FormatCurrency(res.IncomeTestPension))
	writeLine(&buf, "Asset test (annual)", FormatCurrency(res.AssetTestPension))
	writeLine(&buf, "Age Pension (annual)", FormatCurrency(res.FinalPension))
	writeLine(&buf, "Percentage of full rate", FormatPercentage(res.PensionPercentage))
	writeLine(&buf, "Eligibility", string(res.Eligibility))
	return buf.Bytes()
}
