package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter. Absent means fallback.
func queryInt(r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// period reads month/year (or mes/anio), defaulting to the current month.
func period(r *http.Request, now time.Time) (month, year int, ok bool) {
	monthKey, yearKey := "month", "year"
	if r.URL.Query().Has("mes") {
		monthKey = "mes"
	}
	if r.URL.Query().Has("anio") {
		yearKey = "anio"
	}
	month, okMonth := queryInt(r, monthKey, int(now.Month()))
	year, okYear := queryInt(r, yearKey, now.Year())
	return month, year, okMonth && okYear
}

// companyIDQuery reads company_id (or empresa_id).
func companyIDQuery(r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("company_id")
	if raw == "" {
		raw = r.URL.Query().Get("empresa_id")
	}
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
