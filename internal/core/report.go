package core

import (
	"fmt"
	"sort"
	"time"
)

type (
	// Report is the aggregated listing built from one full fetch of a
	// user's expenses. All totals are integer sums over the grouped rows.
	Report struct {
		GrandTotal Money
		MonthTotal Money // total for the calendar month containing now
		DayTotal   Money // total for the calendar date of now
		Months     []MonthGroup
	}

	// MonthGroup partitions expenses by calendar year+month.
	MonthGroup struct {
		Year  int
		Month time.Month
		Total Money
		Days  []DayGroup
	}

	// DayGroup partitions a month's expenses by calendar date.
	DayGroup struct {
		Date     time.Time // midnight in the report's display timezone
		Total    Money
		Expenses []Expense
	}
)

// Key returns the zero-padded YYYY-MM month key. Lexicographic order of
// keys equals chronological order.
func (g MonthGroup) Key() string {
	return fmt.Sprintf("%04d-%02d", g.Year, int(g.Month))
}

// BuildReport partitions expenses by month and day in the given display
// timezone and computes per-group, current-month, current-day and grand
// totals. Months are strictly descending by (year, month), days within a
// month strictly descending by date, and expenses within a day strictly
// descending by exact timestamp. Building the report twice from the same
// fetch yields identical output.
func BuildReport(expenses []Expense, now time.Time, loc *time.Location) Report {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	nowYear, nowMonth, nowDay := now.Date()

	var r Report
	months := make(map[string]*MonthGroup)
	days := make(map[string]map[string]*DayGroup)

	for _, e := range expenses {
		spent := e.SpentAt.In(loc)
		year, month, day := spent.Date()

		mkey := fmt.Sprintf("%04d-%02d", year, int(month))
		mg, ok := months[mkey]
		if !ok {
			mg = &MonthGroup{Year: year, Month: month}
			months[mkey] = mg
			days[mkey] = make(map[string]*DayGroup)
		}
		mg.Total = mg.Total.Add(e.Amount)

		dkey := fmt.Sprintf("%s-%02d", mkey, day)
		dg, ok := days[mkey][dkey]
		if !ok {
			dg = &DayGroup{Date: time.Date(year, month, day, 0, 0, 0, 0, loc)}
			days[mkey][dkey] = dg
		}
		dg.Total = dg.Total.Add(e.Amount)
		dg.Expenses = append(dg.Expenses, e)

		r.GrandTotal = r.GrandTotal.Add(e.Amount)
		if year == nowYear && month == nowMonth {
			r.MonthTotal = r.MonthTotal.Add(e.Amount)
			if day == nowDay {
				r.DayTotal = r.DayTotal.Add(e.Amount)
			}
		}
	}

	mkeys := make([]string, 0, len(months))
	for k := range months {
		mkeys = append(mkeys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(mkeys)))

	for _, mk := range mkeys {
		mg := months[mk]
		for _, dg := range days[mk] {
			sort.SliceStable(dg.Expenses, func(i, j int) bool {
				return dg.Expenses[i].SpentAt.After(dg.Expenses[j].SpentAt)
			})
			mg.Days = append(mg.Days, *dg)
		}
		sort.Slice(mg.Days, func(i, j int) bool {
			return mg.Days[i].Date.After(mg.Days[j].Date)
		})
		r.Months = append(r.Months, *mg)
	}

	return r
}
