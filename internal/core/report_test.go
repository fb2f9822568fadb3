package core

import (
	"reflect"
	"testing"
	"time"
)

func exp(id int64, spentAt time.Time, category string, units int64) Expense {
	return Expense{
		ID:       id,
		UserID:   1,
		SpentAt:  spentAt,
		Category: category,
		Payment:  PaymentCash,
		Amount:   Money{Units: units},
	}
}

// Fixture spanning two months and multiple days, including two expenses
// tied to the minute within the same day.
func fixture() []Expense {
	return []Expense{
		exp(1, time.Date(2026, 8, 24, 12, 30, 45, 0, time.UTC), "Food", 1200),
		exp(2, time.Date(2026, 8, 24, 12, 30, 10, 0, time.UTC), "Transport", 300),
		exp(3, time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC), "Food", 800),
		exp(4, time.Date(2026, 7, 31, 23, 59, 0, 0, time.UTC), "Misc", 5000),
		exp(5, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), "Food", 450),
	}
}

func TestBuildReportTotalsConsistent(t *testing.T) {
	now := time.Date(2026, 8, 24, 15, 0, 0, 0, time.UTC)
	r := BuildReport(fixture(), now, time.UTC)

	if r.GrandTotal.Units != 7750 {
		t.Fatalf("grand total = %d, want 7750", r.GrandTotal.Units)
	}

	var monthSum int64
	for _, mg := range r.Months {
		monthSum += mg.Total.Units
		var daySum int64
		for _, dg := range mg.Days {
			daySum += dg.Total.Units
			var expSum int64
			for _, e := range dg.Expenses {
				expSum += e.Amount.Units
			}
			if expSum != dg.Total.Units {
				t.Fatalf("day %s total %d != sum of expenses %d", dg.Date, dg.Total.Units, expSum)
			}
		}
		if daySum != mg.Total.Units {
			t.Fatalf("month %s total %d != sum of day totals %d", mg.Key(), mg.Total.Units, daySum)
		}
	}
	if monthSum != r.GrandTotal.Units {
		t.Fatalf("sum of month totals %d != grand total %d", monthSum, r.GrandTotal.Units)
	}
}

func TestBuildReportCurrentTotals(t *testing.T) {
	now := time.Date(2026, 8, 24, 15, 0, 0, 0, time.UTC)
	r := BuildReport(fixture(), now, time.UTC)

	if r.MonthTotal.Units != 2300 { // ids 1, 2, 3
		t.Fatalf("current-month total = %d, want 2300", r.MonthTotal.Units)
	}
	if r.DayTotal.Units != 1500 { // ids 1, 2
		t.Fatalf("current-day total = %d, want 1500", r.DayTotal.Units)
	}
}

func TestBuildReportOrdering(t *testing.T) {
	now := time.Date(2026, 8, 24, 15, 0, 0, 0, time.UTC)
	r := BuildReport(fixture(), now, time.UTC)

	if len(r.Months) != 2 {
		t.Fatalf("expected 2 month groups, got %d", len(r.Months))
	}
	if r.Months[0].Key() != "2026-08" || r.Months[1].Key() != "2026-07" {
		t.Fatalf("month keys not descending: %s, %s", r.Months[0].Key(), r.Months[1].Key())
	}

	for _, mg := range r.Months {
		for i := 1; i < len(mg.Days); i++ {
			if !mg.Days[i-1].Date.After(mg.Days[i].Date) {
				t.Fatalf("day groups in %s not strictly descending", mg.Key())
			}
		}
		for _, dg := range mg.Days {
			for i := 1; i < len(dg.Expenses); i++ {
				if dg.Expenses[i-1].SpentAt.Before(dg.Expenses[i].SpentAt) {
					t.Fatalf("expenses on %s not descending by timestamp", dg.Date)
				}
			}
		}
	}

	// The minute-tied pair on Aug 24 must still be exact-timestamp descending.
	aug24 := r.Months[0].Days[0]
	if aug24.Expenses[0].ID != 1 || aug24.Expenses[1].ID != 2 {
		t.Fatalf("tied-minute expenses out of order: %d, %d", aug24.Expenses[0].ID, aug24.Expenses[1].ID)
	}
}

func TestBuildReportIdempotent(t *testing.T) {
	now := time.Date(2026, 8, 24, 15, 0, 0, 0, time.UTC)
	a := BuildReport(fixture(), now, time.UTC)
	b := BuildReport(fixture(), now, time.UTC)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two builds over the same fetch differ")
	}
}

func TestBuildReportEmpty(t *testing.T) {
	r := BuildReport(nil, time.Now(), time.UTC)
	if len(r.Months) != 0 || r.GrandTotal.Units != 0 {
		t.Fatalf("empty fetch should produce empty report, got %+v", r)
	}
}

func TestBuildReportDisplayTimezone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 23:30 UTC on Aug 23 is 08:30 JST on Aug 24.
	expenses := []Expense{exp(1, time.Date(2026, 8, 23, 23, 30, 0, 0, time.UTC), "Food", 100)}
	now := time.Date(2026, 8, 24, 1, 0, 0, 0, time.UTC) // Aug 24 in JST too

	r := BuildReport(expenses, now, tokyo)
	if len(r.Months) != 1 || len(r.Months[0].Days) != 1 {
		t.Fatalf("unexpected grouping: %+v", r)
	}
	if d := r.Months[0].Days[0].Date.Day(); d != 24 {
		t.Fatalf("expected JST day 24, got %d", d)
	}
	if r.DayTotal.Units != 100 {
		t.Fatalf("expense should count toward today's total in JST, got %d", r.DayTotal.Units)
	}
}
