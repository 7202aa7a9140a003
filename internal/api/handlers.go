package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
	_ "time/tzdata" // ?tz= must resolve on hosts without a zoneinfo database

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/zapponejosh/hijri-api/internal/almanac"
	"github.com/zapponejosh/hijri-api/internal/calendar"
	"github.com/zapponejosh/hijri-api/internal/database"
	"github.com/zapponejosh/hijri-api/internal/logger"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db       *database.DB
	almanac  *almanac.Service
	metrics  *Metrics
	validate *validator.Validate
	now      func() time.Time
}

// NewHandlers creates a new Handlers instance.
// Request-scoped logging goes through the logger package.
func NewHandlers(db *database.DB, svc *almanac.Service, metrics *Metrics) *Handlers {
	return &Handlers{
		db:       db,
		almanac:  svc,
		metrics:  metrics,
		validate: newValidator(),
		now:      time.Now,
	}
}

// HijriResponse is a converted Hijri date with its display names.
type HijriResponse struct {
	Hijri       calendar.HijriDate `json:"hijri"`
	Formatted   string             `json:"formatted"`
	MonthName   string             `json:"month_name"`
	WeekdayName string             `json:"weekday_name"`
	Gregorian   string             `json:"gregorian"`
}

// GregorianResponse is a converted calendar date with its display form.
type GregorianResponse struct {
	Date      calendar.CalendarDate `json:"date"`
	ISO       string                `json:"iso"`
	Formatted string                `json:"formatted"`
	JulianDay float64               `json:"julian_day"`
}

// LunationResponse lists the phases of one lunation and when its crescent
// is first visible.
type LunationResponse struct {
	calendar.LunationPhases
	Visibility  calendar.MoonVisibility `json:"visibility"`
	NewMoonDate string                  `json:"new_moon_date"`
	VisibleDate string                  `json:"visible_date"`
}

// DaysInMonthResponse is the length of a calendar month.
type DaysInMonthResponse struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Days      int    `json:"days"`
}

// HijriYearResponse lists the month starts of a Hijri year.
type HijriYearResponse struct {
	Year   int                   `json:"year"`
	Days   int                   `json:"days"`
	Months []database.MonthStart `json:"months"`
}

// AlmanacStats summarizes the stored month starts.
type AlmanacStats struct {
	SchemaVersion int                    `json:"schema_version"`
	Months        int                    `json:"months"`
	Years         []database.YearSummary `json:"years"`
}

func newHijriResponse(h calendar.HijriDate, g calendar.CalendarDate) HijriResponse {
	return HijriResponse{
		Hijri:       h,
		Formatted:   h.String(),
		MonthName:   calendar.HijriMonthName(h.Month),
		WeekdayName: calendar.WeekdayName(h.Weekday),
		Gregorian:   calendar.FormatDate(g),
	}
}

func newGregorianResponse(cd calendar.CalendarDate) GregorianResponse {
	return GregorianResponse{
		Date:      cd,
		ISO:       calendar.FormatDate(cd),
		Formatted: cd.String(),
		JulianDay: cd.JulianDay(),
	}
}

// check validates params and writes a 400 response when they are invalid.
func (h *Handlers) check(w http.ResponseWriter, params any) bool {
	err := h.validate.Struct(params)
	if err == nil {
		return true
	}
	if fields := validationFields(err); fields != nil {
		WriteValidationError(w, fields)
		return false
	}
	WriteBadRequest(w, err.Error())
	return false
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.Health(ctx); err != nil {
		logger.Warn(ctx, "health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

// GetHijriToday handles GET /api/v1/hijri/today?tz=Asia/Riyadh
//
// The civil date is taken in tz when given, UTC otherwise.
func (h *Handlers) GetHijriToday(w http.ResponseWriter, r *http.Request) {
	loc := time.UTC
	if tz := r.URL.Query().Get("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Unknown time zone: %s", tz))
			return
		}
		loc = l
	}

	now := h.now().In(loc)
	hd, err := calendar.HijriFromTime(now)
	if err != nil {
		logger.Error(r.Context(), "hijri conversion failed", err)
		WriteInternalError(w, "Failed to convert date")
		return
	}

	h.metrics.Conversion("today")
	WriteSuccess(w, newHijriResponse(hd, calendar.FromTime(now)))
}

// GetHijriFromGregorian handles GET /api/v1/hijri/from-gregorian/{date}
func (h *Handlers) GetHijriFromGregorian(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")

	y, m, d, err := calendar.ParseDateString(dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}

	params := gregorianDateParams{Year: y, Month: m, Day: d}
	if !h.check(w, params) {
		return
	}
	if err := calendar.ValidateGregorian(y, m, d); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	hd, err := calendar.HijriFromGregorian(y, m, d)
	if err != nil {
		logger.Error(r.Context(), "hijri conversion failed", err, slog.String("date", dateStr))
		WriteInternalError(w, "Failed to convert date")
		return
	}

	h.metrics.Conversion("gregorian_to_hijri")
	WriteSuccess(w, newHijriResponse(hd, calendar.FromJulianDay(calendar.ToJulianDay(y, m, d, 0))))
}

// GetGregorianFromHijri handles GET /api/v1/gregorian/from-hijri/{year}/{month}/{day}
func (h *Handlers) GetGregorianFromHijri(w http.ResponseWriter, r *http.Request) {
	var params hijriDateParams
	var err error
	if params.Year, err = pathInt(r, "year"); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if params.Month, err = pathInt(r, "month"); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if params.Day, err = pathInt(r, "day"); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if !h.check(w, params) {
		return
	}
	if err := calendar.ValidateHijri(params.Year, params.Month, params.Day); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	cd := calendar.GregorianFromHijri(params.Year, params.Month, params.Day)

	h.metrics.Conversion("hijri_to_gregorian")
	WriteSuccess(w, newGregorianResponse(cd))
}

// GetJulianDay handles GET /api/v1/julian-day?year=&month=&day=&time=
func (h *Handlers) GetJulianDay(w http.ResponseWriter, r *http.Request) {
	var q julianDayQuery
	var err error
	if q.Year, err = queryInt(r, "year"); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if q.Month, err = queryInt(r, "month"); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if q.Day, err = queryInt(r, "day"); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if q.Time, err = queryFloat(r, "time", 0); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if !h.check(w, q) {
		return
	}
	if err := calendar.ValidateGregorian(q.Year, q.Month, q.Day); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	jd := calendar.ToJulianDay(q.Year, q.Month, q.Day, q.Time)

	h.metrics.Conversion("to_julian_day")
	WriteSuccess(w, newGregorianResponse(calendar.FromJulianDay(jd)))
}

// GetFromJulianDay handles GET /api/v1/julian-day/{jdn}
func (h *Handlers) GetFromJulianDay(w http.ResponseWriter, r *http.Request) {
	var params jdnParams
	var err error
	if params.JDN, err = pathFloat(r, "jdn"); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if !h.check(w, params) {
		return
	}

	h.metrics.Conversion("from_julian_day")
	WriteSuccess(w, newGregorianResponse(calendar.FromJulianDay(params.JDN)))
}

// GetLunation handles GET /api/v1/lunations/{n}
//
// Lunation 0 is the new moon of January 1900.
func (h *Handlers) GetLunation(w http.ResponseWriter, r *http.Request) {
	var params lunationParams
	var err error
	if params.N, err = pathInt(r, "n"); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if !h.check(w, params) {
		return
	}

	mv := calendar.VisibleDay(params.N)

	h.metrics.Conversion("lunation")
	WriteSuccess(w, LunationResponse{
		LunationPhases: calendar.Lunation(params.N),
		Visibility:     mv,
		NewMoonDate:    calendar.FormatDate(calendar.FromJulianDay(mv.Conjunction)),
		VisibleDate:    calendar.FormatDate(calendar.FromJulianDay(mv.Visible)),
	})
}

// GetDaysInMonth handles GET /api/v1/calendar/days-in-month/{year}/{month}
func (h *Handlers) GetDaysInMonth(w http.ResponseWriter, r *http.Request) {
	var params yearMonthParams
	var err error
	if params.Year, err = pathInt(r, "year"); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if params.Month, err = pathInt(r, "month"); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if !h.check(w, params) {
		return
	}

	// BCE leap years are 1, 5, 9 ... before the era.
	leapYear := params.Year
	if leapYear < 0 {
		leapYear++
	}

	n, err := calendar.DaysInMonth(params.Month, leapYear)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	WriteSuccess(w, DaysInMonthResponse{
		Year:      params.Year,
		Month:     params.Month,
		MonthName: calendar.MonthName(params.Month),
		Days:      n,
	})
}

// GetHijriYearMonths handles GET /api/v1/hijri/years/{year}/months
func (h *Handlers) GetHijriYearMonths(w http.ResponseWriter, r *http.Request) {
	var params hijriYearParams
	var err error
	if params.Year, err = pathInt(r, "year"); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if !h.check(w, params) {
		return
	}

	months, err := h.almanac.Year(r.Context(), params.Year)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidYear) {
			WriteBadRequest(w, err.Error())
			return
		}
		logger.Error(r.Context(), "failed to load hijri year", err, slog.Int("hijri_year", params.Year))
		WriteInternalError(w, "Failed to retrieve month starts")
		return
	}

	days := 0
	for _, m := range months {
		days += m.LengthDays
	}

	WriteSuccess(w, HijriYearResponse{Year: params.Year, Days: days, Months: months})
}

// GetAlmanacStats handles GET /api/v1/almanac/stats
func (h *Handlers) GetAlmanacStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n, err := h.db.CountMonthStarts(ctx)
	if err != nil {
		logger.Error(ctx, "failed to count month starts", err)
		WriteInternalError(w, "Failed to retrieve almanac stats")
		return
	}

	years, err := h.db.SummarizeYears(ctx)
	if err != nil {
		logger.Error(ctx, "failed to summarize years", err)
		WriteInternalError(w, "Failed to retrieve almanac stats")
		return
	}
	if years == nil {
		years = []database.YearSummary{}
	}

	version, err := h.db.SchemaVersion(ctx)
	if err != nil {
		logger.Error(ctx, "failed to read schema version", err)
		WriteInternalError(w, "Failed to retrieve almanac stats")
		return
	}

	WriteSuccess(w, AlmanacStats{SchemaVersion: version, Months: n, Years: years})
}

// RefreshAlmanac handles POST /api/v1/admin/almanac/refresh
func (h *Handlers) RefreshAlmanac(w http.ResponseWriter, r *http.Request) {
	res, err := h.almanac.Refresh(r.Context(), h.now())
	if err != nil {
		logger.Error(r.Context(), "almanac refresh failed", err)
		WriteInternalError(w, "Failed to refresh almanac")
		return
	}

	WriteSuccess(w, res)
}
