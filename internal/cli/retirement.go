package cli

import (
	"fmt"
	"io"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"payroll-engine/internal/model"
	"payroll-engine/internal/payroll"
)

type retirementFlags struct {
	start, end string
	salaries   []int64
	bonus      int64
	leaveDays  int64
}

func NewRetirementCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &retirementFlags{}

	cmd := &cobra.Command{
		Use:   "retirement",
		Short: "Calculate statutory retirement pay",
		Long: `Calculate retirement pay from the employment period and the last three
monthly salaries. The annual bonus and unused leave allowance are added to the
three-month wage before the average daily wage is taken. Exits with status 3
when the service period is shorter than one year.`,
		Example: "  payroll-engine retirement --start-date 2020-01-01 --end-date 2024-12-31 \\\n" +
			"    --monthly-salaries 3000000,3000000,3000000",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRetirement(cmd, rootOpts, flags)
		},
	}

	cmd.Flags().StringVar(&flags.start, "start-date", "", "first day of employment (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.end, "end-date", "", "last day of employment (YYYY-MM-DD)")
	cmd.Flags().Int64SliceVar(&flags.salaries, "monthly-salaries", nil, "last three monthly salaries in won")
	cmd.Flags().Int64Var(&flags.bonus, "annual-bonus", 0, "annual bonus in won")
	cmd.Flags().Int64Var(&flags.leaveDays, "unused-leave-days", 0, "unused annual leave days")
	_ = cmd.MarkFlagRequired("start-date")
	_ = cmd.MarkFlagRequired("end-date")
	_ = cmd.MarkFlagRequired("monthly-salaries")

	return cmd
}

func (f *retirementFlags) input() (model.RetirementInput, error) {
	start, err := civil.ParseDate(f.start)
	if err != nil {
		return model.RetirementInput{}, WrapExitError(ExitUsage, "invalid --start-date", err)
	}
	end, err := civil.ParseDate(f.end)
	if err != nil {
		return model.RetirementInput{}, WrapExitError(ExitUsage, "invalid --end-date", err)
	}
	return model.RetirementInput{
		StartDate:       start,
		EndDate:         end,
		MonthlySalaries: f.salaries,
		AnnualBonus:     f.bonus,
		UnusedLeaveDays: f.leaveDays,
	}, nil
}

func runRetirement(cmd *cobra.Command, opts *RootOptions, flags *retirementFlags) error {
	in, err := flags.input()
	if err != nil {
		return err
	}
	table, err := defaultTable(cmd, opts)
	if err != nil {
		return err
	}
	res, err := payroll.RetirementPay(table, in)
	if err != nil {
		return calculationError(err)
	}

	return newFormatter(opts, cmd).Print(res, func(p *message.Printer, w io.Writer) {
		p.Fprintf(w, "Retirement pay (%s rates)\n", strconv.Itoa(table.Year))
		p.Fprintf(w, "%-24s %15s\n", "Service",
			fmt.Sprintf("%dy %dm %dd", res.ServiceYears, res.ServiceMonths, res.ServiceDays))
		p.Fprintf(w, "%-24s %14d일\n", "Service days", res.TotalServiceDays)
		won(p, w, "Three-month wage", res.ThreeMonthWage)
		won(p, w, "Bonus addition", res.BonusAddition)
		won(p, w, "Leave addition", res.LeaveAddition)
		won(p, w, "Average daily wage", res.AverageDailyWage)
		won(p, w, "Retirement pay", res.RetirementPay)
	})
}
