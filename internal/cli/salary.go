package cli

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"payroll-engine/internal/model"
	"payroll-engine/internal/payroll"
)

func NewSalaryCommand(rootOpts *RootOptions) *cobra.Command {
	var in model.SalaryInput

	cmd := &cobra.Command{
		Use:   "salary",
		Short: "Calculate monthly net salary",
		Long: `Calculate the monthly take-home pay for an annual salary: national pension,
health and long-term care insurance, employment insurance, income tax from
the simplified withholding table, and local income tax.`,
		Example: "  payroll-engine salary --annual-salary 50000000 --dependents 1",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSalary(cmd, rootOpts, in)
		},
	}

	cmd.Flags().Int64Var(&in.AnnualSalary, "annual-salary", 0, "annual salary in won")
	cmd.Flags().IntVar(&in.Dependents, "dependents", 1, "dependents including the employee")
	cmd.Flags().IntVar(&in.Children, "children", 0, "children aged 8 to 20")
	cmd.Flags().Int64Var(&in.NonTaxableMonthly, "non-taxable-monthly", 0, "monthly non-taxable allowance in won")
	cmd.Flags().BoolVar(&in.IncludeRetirementReserve, "include-retirement-reserve", false, "the annual salary includes the retirement reserve")
	_ = cmd.MarkFlagRequired("annual-salary")

	return cmd
}

func runSalary(cmd *cobra.Command, opts *RootOptions, in model.SalaryInput) error {
	table, err := defaultTable(cmd, opts)
	if err != nil {
		return err
	}
	res, err := payroll.NetSalary(table, in)
	if err != nil {
		return calculationError(err)
	}

	return newFormatter(opts, cmd).Print(res, func(p *message.Printer, w io.Writer) {
		p.Fprintf(w, "Net salary (%s rates)\n", strconv.Itoa(table.Year))
		won(p, w, "Monthly gross", res.MonthlyGross)
		won(p, w, "National pension", res.Deductions.NationalPension)
		won(p, w, "Health insurance", res.Deductions.HealthInsurance)
		won(p, w, "Long-term care", res.Deductions.LongTermCare)
		won(p, w, "Employment insurance", res.Deductions.EmploymentInsurance)
		won(p, w, "Income tax", res.Deductions.IncomeTax)
		won(p, w, "Local income tax", res.Deductions.LocalIncomeTax)
		won(p, w, "Total deductions", res.Deductions.Total())
		won(p, w, "Monthly net", res.MonthlyNet)
		won(p, w, "Annual net", res.AnnualNet)
	})
}
