package http

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/gateway"
)

// IndexViewModel holds data for the entry form page.
type IndexViewModel struct {
	UserName      string
	Categories    []core.Category
	CashlessTypes []core.CashlessType
	Now           string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	user := userFromContext(r)

	cats, err := s.refs.ActiveCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Active categories error", "error", err)
	}
	types, err := s.refs.ActiveCashlessTypes(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Active cashless types error", "error", err)
	}

	data := IndexViewModel{
		UserName:      user.Name,
		Categories:    cats,
		CashlessTypes: types,
		Now:           time.Now().In(s.loc).Format(datetimeLocalLayout),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	user := userFromContext(r)

	in, err := parseExpenseForm(r.Form, user.ID, s.loc)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(validationMessage(err)) + `</div>`))
		return
	}

	id, rev, err := s.service.CreateExpense(r.Context(), in, time.Now())
	if err != nil {
		if msg, ok := asValidationError(err); ok {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
			return
		}
		slog.ErrorContext(r.Context(), "Expense create error", "error", err, "user_id", user.ID)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to save expense</div>`))
		return
	}

	w.Header().Set("HX-Trigger", expensesChangedTrigger(rev))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Saved #` + strconv.FormatInt(id, 10) + `: ` +
		template.HTMLEscapeString(in.Category) + ` ` +
		template.HTMLEscapeString(in.Amount.Format()) + `</div>`))
}

// ConfirmViewModel holds data for the delete confirmation partial.
type ConfirmViewModel struct {
	ID       int64
	Category string
	Amount   string
}

func (s *Server) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid expense id</div>`))
		return
	}

	e, err := s.service.ExpenseByID(r.Context(), id, user.ID)
	if errors.Is(err, gateway.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<div class="error">Expense not found</div>`))
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense lookup error", "error", err, "id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to load expense</div>`))
		return
	}

	data := ConfirmViewModel{
		ID:       e.ID,
		Category: e.Category,
		Amount:   e.Amount.Format(),
	}
	if err := s.templates.ExecuteTemplate(w, "confirm_delete.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Confirm template execution failed", "error", err, "id", id)
	}
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid expense id</div>`))
		return
	}

	rev, err := s.service.DeleteExpense(r.Context(), id, user.ID)
	if errors.Is(err, gateway.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<div class="error">Expense not found</div>`))
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense delete error", "error", err, "id", id, "user_id", user.ID)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to delete expense</div>`))
		return
	}

	w.Header().Set("HX-Trigger", expensesChangedTrigger(rev))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(``))
}

// expensesChangedTrigger builds the HX-Trigger payload that tells the
// client to refresh the listing. The revision lets the client drop
// refreshes that complete out of order.
func expensesChangedTrigger(revision int64) string {
	return fmt.Sprintf(`{"expenses:changed": {"revision": %d}}`, revision)
}

// validationMessage maps domain sentinels to the messages shown inline
// under the entry form.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyCategory):
		return "Select a category"
	case errors.Is(err, core.ErrInvalidPaymentType):
		return "Select a payment type"
	case errors.Is(err, core.ErrEmptyCashlessType):
		return "Select a cashless payment type"
	case errors.Is(err, core.ErrInvalidAmount):
		return "Enter a positive whole amount"
	default:
		return "Invalid input"
	}
}

// asValidationError reports whether err is a domain validation failure
// the user can fix, as opposed to an internal error.
func asValidationError(err error) (string, bool) {
	for _, sentinel := range []error{
		core.ErrEmptyCategory,
		core.ErrInvalidPaymentType,
		core.ErrEmptyCashlessType,
		core.ErrInvalidAmount,
	} {
		if errors.Is(err, sentinel) {
			return validationMessage(err), true
		}
	}
	return "", false
}
