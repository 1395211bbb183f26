package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/power-quote/pkg/models/domain"
)

type TableConfig struct {
	CategoryWidth    int
	QuantityWidth    int
	UnitWidth        int
	CostWidth        int
	DescriptionWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		CategoryWidth:    14,
		QuantityWidth:    10,
		UnitWidth:        8,
		CostWidth:        16,
		DescriptionWidth: 60,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(quote *domain.Quote) error {
	funcMap := template.FuncMap{
		"formatRow": func(category string, quantity interface{}, unit string, cost string, desc string) string {
			return fmt.Sprintf("| %-*s | %-*v | %-*s | %*s | %-*s |",
				c.config.CategoryWidth, category,
				c.config.QuantityWidth, quantity,
				c.config.UnitWidth, unit,
				c.config.CostWidth, cost,
				c.config.DescriptionWidth, desc)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.CategoryWidth+2),
				strings.Repeat("-", c.config.QuantityWidth+2),
				strings.Repeat("-", c.config.UnitWidth+2),
				strings.Repeat("-", c.config.CostWidth+2),
				strings.Repeat("-", c.config.DescriptionWidth+2))
		},
		"money": func(v float64) string {
			return fmt.Sprintf("$%.2f", v)
		},
	}

	tmpl := `
Equipment Quote (rates v{{.RateVersion}}, source: {{.SourceTier}}{{if .Stale}}, STALE{{end}})

Generated: {{.GeneratedAt.Format "2006-01-02 15:04:05"}}

{{separator}}
{{formatRow "Category" "Quantity" "Unit" "Total Cost" "Description"}}
{{separator}}
{{range .Breakdown.Lines}}{{formatRow .Category (printf "%.0f" .Quantity) .Unit (money .TotalCost) .Description}}
{{end}}{{separator}}
{{if .Breakdown.OmittedCategories}}
Could not price (no rate data): {{range .Breakdown.OmittedCategories}}{{.}} {{end}}
{{end}}
Equipment subtotal:   {{money .Breakdown.Totals.EquipmentCost}}
Balance of system:    {{money .Breakdown.Installation.BOS}}
EPC:                  {{money .Breakdown.Installation.EPC}}
Contingency:          {{money .Breakdown.Installation.Contingency}}
Project total:        {{money .Breakdown.Totals.TotalProjectCost}}
{{range .Breakdown.Lines}}{{if .Feasibility}}{{if not .Feasibility.IsFeasible}}
[{{.Category}}] site-area conflict ({{printf "%.1f" .Feasibility.RequiredAreaAcres}} acres needed, {{printf "%.1f" .Feasibility.MaxAreaAcres}} plausible):
{{range .Feasibility.Suggestions}}  - {{.}}
{{end}}{{end}}{{end}}{{end}}`

	t, err := template.New("quote").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := t.Execute(c.writer, quote); err != nil {
		return fmt.Errorf("failed to render quote: %w", err)
	}
	return nil
}
