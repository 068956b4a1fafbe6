package model

import "cloud.google.com/go/civil"

// RetirementInput describes an employment period and the most recent wages.
// MonthlySalaries must hold exactly the last three months.
type RetirementInput struct {
	StartDate       civil.Date `json:"start_date"`
	EndDate         civil.Date `json:"end_date"`
	MonthlySalaries []int64    `json:"monthly_salaries"`
	AnnualBonus     int64      `json:"annual_bonus"`
	UnusedLeaveDays int64      `json:"unused_leave_days"`
}

type RetirementResult struct {
	TotalServiceDays int   `json:"total_service_days"`
	ServiceYears     int   `json:"service_years"`
	ServiceMonths    int   `json:"service_months"`
	ServiceDays      int   `json:"service_days"`
	AverageDailyWage int64 `json:"average_daily_wage"`
	RetirementPay    int64 `json:"retirement_pay"`

	ThreeMonthWage   int64 `json:"three_month_wage"`
	BonusAddition    int64 `json:"bonus_addition"`
	LeaveAddition    int64 `json:"leave_addition"`
	TotalWageForCalc int64 `json:"total_wage_for_calc"`
	DaysForCalc      int   `json:"days_for_calc"`
}
