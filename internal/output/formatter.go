package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

// Formatter renders scenario results into a report
type Formatter interface {
	Name() string
	Format(results *domain.ScenarioComparison) ([]byte, error)
}

// FormatterFunc adapts a plain function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(results *domain.ScenarioComparison) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(results *domain.ScenarioComparison) ([]byte, error) {
	return f.F(results)
}

var formatters = map[string]Formatter{
	"console":      ConsoleFormatter{},
	"console-lite": ConsoleLiteFormatter{},
	"csv":          CSVSummarizer{},
	"detailed-csv": DetailedCSVFormatter{},
	"json":         JSONFormatter{Pretty: true},
	"html":         HTMLFormatter{},
	"pdf":          PDFFormatter{},
}

var formatAliases = map[string]string{
	"verbose": "console",
	"text":    "console",
	"summary": "console-lite",
	"table":   "console-lite",
	"htm":     "html",
}

// NormalizeFormatName lower-cases a format name and resolves aliases
func NormalizeFormatName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := formatAliases[name]; ok {
		return canonical
	}
	return name
}

// GetFormatterByName returns the formatter registered under name or one of its
// aliases, or nil when there is none.
func GetFormatterByName(name string) Formatter {
	return formatters[NormalizeFormatName(name)]
}

// AvailableFormatterNames lists the registered formatter names, sorted
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted aliases, sorted
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// FileExtension is the extension used when a report is written to disk
func FileExtension(formatName string) string {
	switch name := NormalizeFormatName(formatName); name {
	case "console", "console-lite":
		return "txt"
	case "detailed-csv":
		return "csv"
	default:
		return name
	}
}

// WriteFormatted renders results and writes them to a timestamped file in the
// working directory, returning the file name.
func WriteFormatted(formatter Formatter, results *domain.ScenarioComparison, ext string) (string, error) {
	filename := fmt.Sprintf("retirement_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := WriteToFile(formatter, results, filename); err != nil {
		return "", err
	}
	return filename, nil
}

// WriteToFile renders results and writes them to path
func WriteToFile(formatter Formatter, results *domain.ScenarioComparison, path string) error {
	data, err := formatter.Format(results)
	if err != nil {
		return fmt.Errorf("%s formatter: %w", formatter.Name(), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
