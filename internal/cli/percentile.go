package cli

import (
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"payroll-engine/internal/model"
	"payroll-engine/internal/payroll"
	"payroll-engine/internal/rates"
)

func NewPercentileCommand(rootOpts *RootOptions) *cobra.Command {
	var in model.PercentileInput

	cmd := &cobra.Command{
		Use:     "percentile",
		Short:   "Rank an annual salary or retirement pay amount",
		Example: "  payroll-engine percentile --domain salary --amount 50000000",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := defaultTable(cmd, rootOpts)
			if err != nil {
				return err
			}
			if in.Amount < 0 {
				return NewExitError(ExitUsage, "invalid --amount: must be non-negative")
			}
			pct, err := payroll.Percentile(table, rates.Domain(in.Domain), in.Amount)
			if err != nil {
				return calculationError(err)
			}
			res := model.PercentileResult{Domain: in.Domain, Amount: in.Amount, Percentile: pct}

			return newFormatter(rootOpts, cmd).Print(res, func(p *message.Printer, w io.Writer) {
				p.Fprintf(w, "%d원 is in the top %d%% (%s)\n", res.Amount, res.Percentile, res.Domain)
			})
		},
	}

	cmd.Flags().StringVar(&in.Domain, "domain", string(rates.DomainSalary), "salary or retirement")
	cmd.Flags().Int64Var(&in.Amount, "amount", 0, "amount in won")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
