package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"kakeibo/internal/core"
)

// Listing view models. Amounts arrive pre-formatted; templates never
// touch Money directly.
type (
	ExpenseRow struct {
		ID           int64
		Time         string
		Icon         string
		Category     string
		Payment      string
		CashlessType string
		Amount       string
		Comment      string
	}

	DayViewModel struct {
		Label    string
		Total    string
		Expenses []ExpenseRow
	}

	MonthViewModel struct {
		Label string
		Total string
		Days  []DayViewModel
	}

	ListViewModel struct {
		Revision   int64
		GrandTotal string
		MonthTotal string
		DayTotal   string
		Months     []MonthViewModel
	}
)

// handleExpenseList renders the grouped listing partial. Every render
// is a full fetch: expenses and the complete category set are loaded
// fresh, concurrently, and aggregated from scratch.
func (s *Server) handleExpenseList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	user := userFromContext(r)

	var (
		expenses   []core.Expense
		revision   int64
		categories []core.Category
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		expenses, revision, err = s.service.ListExpenses(ctx, user.ID)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.refs.AllCategories(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(r.Context(), "Expense list fetch error", "error", err, "user_id", user.ID)
		// A 5xx keeps htmx from swapping, so the previously rendered
		// list stays on screen and keeps its refresh triggers.
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to load expenses</div>`))
		return
	}

	report := core.BuildReport(expenses, time.Now(), s.loc)
	data := s.buildListViewModel(report, categories, revision)

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="expense-list" class="expense-list"><div class="placeholder">Total: ` + data.GrandTotal + `</div></section>`))
		return
	}

	// Render to a buffer so a template failure can still withhold the
	// swap instead of replacing the list with a partial write.
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "expense_list.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Expense list template execution failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to render expenses</div>`))
		return
	}
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) buildListViewModel(report core.Report, categories []core.Category, revision int64) ListViewModel {
	data := ListViewModel{
		Revision:   revision,
		GrandTotal: report.GrandTotal.Format(),
		MonthTotal: report.MonthTotal.Format(),
		DayTotal:   report.DayTotal.Format(),
	}

	for _, mg := range report.Months {
		mvm := MonthViewModel{
			Label: time.Date(mg.Year, mg.Month, 1, 0, 0, 0, 0, s.loc).Format("January 2006"),
			Total: mg.Total.Format(),
		}
		for _, dg := range mg.Days {
			dvm := DayViewModel{
				Label: dg.Date.Format("Mon, Jan 2"),
				Total: dg.Total.Format(),
			}
			for _, e := range dg.Expenses {
				dvm.Expenses = append(dvm.Expenses, ExpenseRow{
					ID:           e.ID,
					Time:         e.SpentAt.In(s.loc).Format("15:04"),
					Icon:         core.ResolveIcon(categories, e.Category),
					Category:     e.Category,
					Payment:      paymentLabel(e.Payment),
					CashlessType: e.CashlessType,
					Amount:       e.Amount.Format(),
					Comment:      e.Comment,
				})
			}
			mvm.Days = append(mvm.Days, dvm)
		}
		data.Months = append(data.Months, mvm)
	}

	return data
}

func paymentLabel(p core.PaymentType) string {
	switch p {
	case core.PaymentCash:
		return "Cash"
	case core.PaymentCashless:
		return "Cashless"
	default:
		return string(p)
	}
}
