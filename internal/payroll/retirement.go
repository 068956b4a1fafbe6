package payroll

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"payroll-engine/internal/model"
	"payroll-engine/internal/rates"
)

// RetirementPay computes statutory severance pay. It returns ErrNotEligible
// when the inclusive service length is below the table's minimum, and an
// *InputError for unusable input.
//
// All divisions are exact integer divisions of non-negative values, so each
// step floors the exact quotient. Step order is significant.
func RetirementPay(t *rates.Table, in model.RetirementInput) (model.RetirementResult, error) {
	if err := validateRetirement(in); err != nil {
		return model.RetirementResult{}, err
	}
	rules := t.Retirement

	totalDays := in.EndDate.DaysSince(in.StartDate) + 1
	if totalDays < rules.MinServiceDays {
		return model.RetirementResult{}, ErrNotEligible
	}
	years, months, days := ServicePeriod(in.StartDate, in.EndDate)

	wageDays := int64(rules.AverageWageDays)
	threeMonthWage := lo.Sum(in.MonthlySalaries)
	bonusAddition := in.AnnualBonus * 3 / 12
	leaveAddition := threeMonthWage * in.UnusedLeaveDays / wageDays
	totalWage := threeMonthWage + bonusAddition + leaveAddition

	// The divisor is the fixed standard period, not the calendar length of
	// the three months the wages were earned in.
	averageDailyWage := totalWage / wageDays
	pay, _ := decimal.NewFromInt(averageDailyWage).
		Mul(decimal.NewFromInt(int64(rules.PayDaysPerYear))).
		Mul(decimal.NewFromInt(int64(totalDays))).
		QuoRem(decimal.NewFromInt(int64(rules.DaysPerYear)), 0)

	return model.RetirementResult{
		TotalServiceDays: totalDays,
		ServiceYears:     years,
		ServiceMonths:    months,
		ServiceDays:      days,
		AverageDailyWage: averageDailyWage,
		RetirementPay:    pay.IntPart(),
		ThreeMonthWage:   threeMonthWage,
		BonusAddition:    bonusAddition,
		LeaveAddition:    leaveAddition,
		TotalWageForCalc: totalWage,
		DaysForCalc:      rules.AverageWageDays,
	}, nil
}

// ServicePeriod splits start..end into calendar years, months and remaining
// days. The whole months are counted from start, with a month step landing on
// the last day of a shorter month (Jan 31 + 1 month = Feb 28). All three parts
// are non-negative when start is not after end.
func ServicePeriod(start, end civil.Date) (years, months, days int) {
	total := (end.Year-start.Year)*12 + int(end.Month-start.Month)
	for total > 0 && addMonths(start, total).After(end) {
		total--
	}
	return total / 12, total % 12, end.DaysSince(addMonths(start, total))
}

// addMonths moves d by n calendar months, clamping the day to the end of the
// target month.
func addMonths(d civil.Date, n int) civil.Date {
	first := time.Date(d.Year, d.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	return civil.Date{Year: first.Year(), Month: first.Month(), Day: min(d.Day, last)}
}

func validateRetirement(in model.RetirementInput) error {
	if !in.StartDate.IsValid() {
		return invalid("start_date", CodeInvalidDate, "start_date is not a valid date")
	}
	if !in.EndDate.IsValid() {
		return invalid("end_date", CodeInvalidDate, "end_date is not a valid date")
	}
	if !in.StartDate.Before(in.EndDate) {
		return invalid("end_date", CodeInvalidDateRange, "end_date must be after start_date")
	}
	if len(in.MonthlySalaries) != 3 {
		return invalid("monthly_salaries", CodeInvalidMonthlySalaries,
			"expected the last 3 monthly salaries, got %d", len(in.MonthlySalaries))
	}
	for _, s := range in.MonthlySalaries {
		if err := checkAmount("monthly_salaries", CodeInvalidMonthlySalaries, s); err != nil {
			return err
		}
	}
	if err := checkAmount("annual_bonus", CodeInvalidBonus, in.AnnualBonus); err != nil {
		return err
	}
	if in.UnusedLeaveDays < 0 || in.UnusedLeaveDays > maxLeaveDays {
		return invalid("unused_leave_days", CodeInvalidLeaveDays,
			"unused_leave_days must be between 0 and %d; leave accrues for at most one year", maxLeaveDays)
	}
	return nil
}

const maxLeaveDays = 366
