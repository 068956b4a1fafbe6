package cli

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"payroll-engine/internal/rates"
)

type ratesSummary struct {
	DefaultYear int   `json:"default_year"`
	Years       []int `json:"years"`
}

func NewRatesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rates [year]",
		Short: "List rate tables or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, rootOpts)
			if err != nil {
				return err
			}
			reg, err := buildRegistry(cfg)
			if err != nil {
				return err
			}
			out := newFormatter(rootOpts, cmd)

			if len(args) == 0 {
				summary := ratesSummary{DefaultYear: reg.DefaultYear(), Years: reg.Years()}
				return out.Print(summary, func(p *message.Printer, w io.Writer) {
					for _, y := range summary.Years {
						marker := ""
						if y == summary.DefaultYear {
							marker = " (default)"
						}
						p.Fprintf(w, "%s%s\n", strconv.Itoa(y), marker)
					}
				})
			}

			year, err := strconv.Atoi(args[0])
			if err != nil {
				return WrapExitError(ExitUsage, "invalid year", err)
			}
			table, err := reg.Table(year)
			if err != nil {
				return WrapExitError(ExitUsage, "no rate table", err)
			}
			return out.Print(table, func(p *message.Printer, w io.Writer) {
				printTable(p, w, table)
			})
		},
	}
}

func printTable(p *message.Printer, w io.Writer, t *rates.Table) {
	p.Fprintf(w, "%s %s\n", strconv.Itoa(t.Year), t.Description)
	p.Fprintf(w, "%-28s %s\n", "National pension rate", t.Insurance.PensionRate)
	won(p, w, "Pension income cap", t.Insurance.PensionCap)
	p.Fprintf(w, "%-28s %s\n", "Health insurance rate", t.Insurance.HealthRate)
	p.Fprintf(w, "%-28s %s\n", "Long-term care rate", t.Insurance.LongTermCareRate)
	p.Fprintf(w, "%-28s %s\n", "Employment insurance rate", t.Insurance.EmploymentRate)
	p.Fprintf(w, "%-28s %s\n", "Local income tax rate", t.LocalIncomeTaxRate)
	p.Fprintf(w, "Income tax brackets (monthly income)\n")
	for _, b := range t.IncomeTax.Brackets {
		if b.Unbounded() {
			p.Fprintf(w, "  %15d원 and above  base %d, %d per %d\n", b.Min, b.Base, b.PerUnit, t.IncomeTax.Unit)
			continue
		}
		p.Fprintf(w, "  %15d원 to %d원  base %d, %d per %d\n", b.Min, b.Max, b.Base, b.PerUnit, t.IncomeTax.Unit)
	}
}
