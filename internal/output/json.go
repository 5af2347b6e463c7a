package output

import (
	json "github.com/goccy/go-json"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

// JSONFormatter emits the raw results as JSON
type JSONFormatter struct {
	Pretty bool
}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	if j.Pretty {
		return json.MarshalIndent(results, "", "  ")
	}
	return json.Marshal(results)
}
