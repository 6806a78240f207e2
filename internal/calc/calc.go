// Package calc derives aggregate financial metrics from an in-memory
// transaction set. Every function here is pure and fail-soft: malformed
// records are skipped and malformed inputs produce a neutral result
// (zero, empty list, or the unchanged budget limit) instead of an
// error. A broken chart is better than a crashed dashboard; the
// services layer is where bad input is rejected loudly.
package calc

import (
	"math"
	"sort"
	"strings"
	"time"

	"budgetbook/internal/core"
)

// Granularity selects the bucket size for SpendingOverTime.
type Granularity string

const (
	ByDay   Granularity = "day"
	ByWeek  Granularity = "week"
	ByMonth Granularity = "month"
)

// TotalBalance returns the signed sum of all amounts, income and
// expenses combined.
func TotalBalance(transactions []core.Transaction) float64 {
	var total float64
	for _, t := range transactions {
		if !finite(t.Amount) {
			continue
		}
		total += t.Amount
	}
	return total
}

// MonthlySpending returns the sum of absolute expense amounts for the
// given YYYY-MM month. Income in the month does not count.
func MonthlySpending(transactions []core.Transaction, month string) float64 {
	var total float64
	for _, t := range transactions {
		if !inMonth(t, month) || !isExpense(t) {
			continue
		}
		total += math.Abs(t.Amount)
	}
	return total
}

// CategoryTotals groups expense amounts by exact category string and
// returns the totals sorted descending. The grouping is case-sensitive.
func CategoryTotals(transactions []core.Transaction) []core.CategoryTotal {
	byCategory := make(map[string]float64)
	for _, t := range transactions {
		if !isExpense(t) {
			continue
		}
		byCategory[t.Category] += math.Abs(t.Amount)
	}

	totals := make([]core.CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		totals = append(totals, core.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Total != totals[j].Total {
			return totals[i].Total > totals[j].Total
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// SpendingOverTime buckets absolute expense amounts by day, ISO-week
// Monday, or month, sorted ascending by bucket key. Transactions whose
// date cannot be bucketed are skipped.
func SpendingOverTime(transactions []core.Transaction, groupBy Granularity) []core.SpendingPoint {
	switch groupBy {
	case ByDay, ByWeek, ByMonth:
	default:
		return nil
	}

	byBucket := make(map[string]float64)
	for _, t := range transactions {
		if !isExpense(t) {
			continue
		}
		bucket, ok := bucketKey(t.Date, groupBy)
		if !ok {
			continue
		}
		byBucket[bucket] += math.Abs(t.Amount)
	}

	points := make([]core.SpendingPoint, 0, len(byBucket))
	for bucket, total := range byBucket {
		points = append(points, core.SpendingPoint{Bucket: bucket, Total: total})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Bucket < points[j].Bucket
	})
	return points
}

// BudgetRemaining returns limit minus the absolute sum of expense
// transactions matching the budget's month and category. The category
// join is intentionally case-sensitive even though the duplicate check
// at write time is not; see DESIGN.md before changing either side.
// Malformed input is treated as zero spend, leaving the limit intact.
func BudgetRemaining(budget core.Budget, transactions []core.Transaction) float64 {
	if !finite(budget.Limit) {
		return budget.Limit
	}
	if !core.ValidMonth(budget.Month) {
		return budget.Limit
	}

	var spent float64
	for _, t := range transactions {
		if !inMonth(t, budget.Month) || !isExpense(t) {
			continue
		}
		if t.Category != budget.Category {
			continue
		}
		spent += math.Abs(t.Amount)
	}
	return budget.Limit - spent
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isExpense(t core.Transaction) bool {
	return finite(t.Amount) && t.Amount < 0
}

func inMonth(t core.Transaction, month string) bool {
	return month != "" && strings.HasPrefix(t.Date, month)
}

// bucketKey maps a YYYY-MM-DD date onto its bucket. For weeks the key
// is the Monday of the ISO week containing the date, as YYYY-MM-DD.
func bucketKey(date string, groupBy Granularity) (string, bool) {
	switch groupBy {
	case ByDay:
		if !core.ValidDate(date) {
			return "", false
		}
		return date, true
	case ByMonth:
		if !core.ValidDate(date) {
			return "", false
		}
		return date[:7], true
	case ByWeek:
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			return "", false
		}
		return weekStart(day).Format("2006-01-02"), true
	}
	return "", false
}

func weekStart(day time.Time) time.Time {
	switch wd := day.Weekday(); wd {
	case time.Sunday:
		return day.AddDate(0, 0, -6)
	default:
		return day.AddDate(0, 0, -(int(wd) - 1))
	}
}
