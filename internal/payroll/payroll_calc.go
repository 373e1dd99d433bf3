package payroll

import (
	"time"

	payrollerrors "emplystack/internal/payroll/errors"
	"emplystack/internal/shared/calendar"

	"github.com/shopspring/decimal"
)

const periodLayout = "2006-01"

// Period is a calendar month in UTC.
type Period struct {
	Month     string
	Start     time.Time
	End       time.Time
	TotalDays int
}

// ParsePeriod accepts exactly "YYYY-MM".
func ParsePeriod(month string) (Period, error) {
	if len(month) != len(periodLayout) {
		return Period{}, payrollerrors.ErrInvalidPeriodFormat
	}
	t, err := time.Parse(periodLayout, month)
	if err != nil {
		return Period{}, payrollerrors.ErrInvalidPeriodFormat
	}

	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	total := DaysInMonth(t.Year(), t.Month())

	return Period{
		Month:     month,
		Start:     start,
		End:       start.AddDate(0, 0, total-1),
		TotalDays: total,
	}, nil
}

// PreviousPeriod returns the month before the one containing now.
func PreviousPeriod(now time.Time) Period {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	p, _ := ParsePeriod(first.AddDate(0, -1, 0).Format(periodLayout))
	return p
}

// DaysInMonth relies on day 0 of the next month normalising to the last day
// of this one.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// UnpaidDays counts leave days inside the period. Each range is clamped to
// the month so a leave spanning two months is split between them.
func UnpaidDays(leaves []LeaveRange, p Period) int {
	total := 0
	for _, l := range leaves {
		start := calendar.Day(l.StartDate)
		end := calendar.Day(l.EndDate)
		if start.Before(p.Start) {
			start = p.Start
		}
		if end.After(p.End) {
			end = p.End
		}
		total += calendar.InclusiveDays(start, end)
	}
	return total
}

// Proration is the outcome of scaling a monthly salary by days worked.
type Proration struct {
	DailyRate       decimal.Decimal
	Earned          decimal.Decimal
	Deduction       decimal.Decimal
	DeductionAmount int64
	NetSalary       int64
}

// Prorate computes earned pay and unpaid-leave deduction from the daily
// rate. Rounding happens once per stored amount, half away from zero. Net
// salary is not floored at zero.
func Prorate(basicSalary int64, totalDays, daysPresent, unpaidDays int) Proration {
	if totalDays <= 0 {
		return Proration{}
	}

	daily := decimal.NewFromInt(basicSalary).Div(decimal.NewFromInt(int64(totalDays)))
	earned := daily.Mul(decimal.NewFromInt(int64(daysPresent)))
	deduction := daily.Mul(decimal.NewFromInt(int64(unpaidDays)))

	return Proration{
		DailyRate:       daily,
		Earned:          earned,
		Deduction:       deduction,
		DeductionAmount: deduction.Round(0).IntPart(),
		NetSalary:       earned.Sub(deduction).Round(0).IntPart(),
	}
}

// AdjustedNet recomputes net salary after manual overtime, bonus or
// deduction changes. The stored deduction amount replaces the prorated one.
func AdjustedNet(p *Payroll) int64 {
	earned := Prorate(p.BasicSalary, p.TotalWorkingDays, p.DaysPresent, 0).Earned
	return earned.
		Sub(decimal.NewFromInt(p.DeductionAmount)).
		Add(decimal.NewFromInt(p.OvertimeAmount)).
		Add(decimal.NewFromInt(p.BonusesAmount)).
		Round(0).
		IntPart()
}
