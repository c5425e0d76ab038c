package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/klokku/ledger/internal/rest"
	"github.com/klokku/ledger/internal/utils"
	"github.com/klokku/ledger/pkg/contract"
	"github.com/klokku/ledger/pkg/user"
	log "github.com/sirupsen/logrus"
)

type DayEntryDTO struct {
	Date                string   `json:"date"`
	Weekday             string   `json:"weekday"`
	ContractId          *int     `json:"contractId,omitempty"`
	WorkingDay          bool     `json:"workingDay"`
	BusinessHoliday     string   `json:"businessHoliday,omitempty"`
	PersonalHoliday     string   `json:"personalHoliday,omitempty"`
	PersonalHolidayKind string   `json:"personalHolidayKind"`
	TimeTarget          int      `json:"timeTarget"`
	TimeActual          int      `json:"timeActual"`
	TimeStatus          *float64 `json:"timeStatus"`
	BillableTarget      int      `json:"billableTarget"`
	BillableActual      int      `json:"billableActual"`
	BillableStatus      *float64 `json:"billableStatus"`
	RevenueTarget       float64  `json:"revenueTarget"`
	RevenueActual       float64  `json:"revenueActual"`
	RevenueStatus       *float64 `json:"revenueStatus"`
}

type PeriodSummaryDTO struct {
	Label            string   `json:"label"`
	From             string   `json:"from"`
	To               string   `json:"to"`
	TargetDays       int      `json:"targetDays"`
	PersonalHolidays int      `json:"personalHolidays"`
	TimeTarget       int      `json:"timeTarget"`
	TimeActual       int      `json:"timeActual"`
	TimeStatus       *float64 `json:"timeStatus"`
	BillableTarget   int      `json:"billableTarget"`
	BillableActual   int      `json:"billableActual"`
	BillableStatus   *float64 `json:"billableStatus"`
	RevenueTarget    float64  `json:"revenueTarget"`
	RevenueActual    float64  `json:"revenueActual"`
	RevenueStatus    *float64 `json:"revenueStatus"`
	Costs            float64  `json:"costs"`
	CostsStatus      *float64 `json:"costsStatus"`
}

type HolidaysDTO struct {
	Entitlement int `json:"entitlement"`
	Planned     int `json:"planned"`
	Past        int `json:"past"`
}

type ReportDTO struct {
	UserId      int                `json:"userId"`
	UserName    string             `json:"userName"`
	Year        int                `json:"year"`
	From        string             `json:"from"`
	To          string             `json:"to"`
	WorkingDays int                `json:"workingDays"`
	Holidays    HolidaysDTO        `json:"holidays"`
	Total       PeriodSummaryDTO   `json:"total"`
	Months      []PeriodSummaryDTO `json:"months"`
	Weeks       []PeriodSummaryDTO `json:"weeks"`
	Days        []DayEntryDTO      `json:"days,omitempty"`
}

type Handler struct {
	service   Service
	renderer  Renderer
	clock     utils.Clock
	loc       *time.Location
	weekStart time.Weekday
}

func NewHandler(service Service, renderer Renderer, clock utils.Clock, settings Settings) *Handler {
	loc := settings.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		service:   service,
		renderer:  renderer,
		clock:     clock,
		loc:       loc,
		weekStart: settings.WeekStart,
	}
}

// GetReport godoc
// @Summary Get yearly report
// @Description Day by day ledger of the current user for one year, as JSON or as CSV with "Accept: text/csv"
// @Tags Report
// @Produce json
// @Produce text/csv
// @Param year query int false "Year, defaults to the current year"
// @Success 200 {object} ReportDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid year"
// @Failure 403 {object} rest.ErrorResponse "User not found"
// @Failure 404 {object} rest.ErrorResponse "No contract"
// @Router /api/report [get]
// @Security XUserToken
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	log.Trace("Getting yearly report")
	currentUser, err := user.CurrentUser(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	year, ok := h.parseYear(w, r)
	if !ok {
		return
	}

	report, err := h.service.ByYear(r.Context(), currentUser, year)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeReport(w, r, report)
}

// GetRangeReport godoc
// @Summary Get report of a date range
// @Description Ledger of the current user between two dates of the same year
// @Tags Report
// @Produce json
// @Produce text/csv
// @Param from query string true "First day (YYYY-MM-DD)"
// @Param to query string true "Last day (YYYY-MM-DD)"
// @Success 200 {object} ReportDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid range"
// @Failure 403 {object} rest.ErrorResponse "User not found"
// @Failure 404 {object} rest.ErrorResponse "No contract"
// @Router /api/report/range [get]
// @Security XUserToken
func (h *Handler) GetRangeReport(w http.ResponseWriter, r *http.Request) {
	currentUser, err := user.CurrentUser(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	from, err := time.ParseInLocation(time.DateOnly, r.URL.Query().Get("from"), h.loc)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:   "Invalid from (date) format",
			Details: "'from' must be in YYYY-MM-DD format",
		})
		return
	}
	to, err := time.ParseInLocation(time.DateOnly, r.URL.Query().Get("to"), h.loc)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:   "Invalid to (date) format",
			Details: "'to' must be in YYYY-MM-DD format",
		})
		return
	}

	report, err := h.service.BuildReport(r.Context(), currentUser, from, to)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeReport(w, r, report)
}

// GetTeamReports godoc
// @Summary Get team overview
// @Description Yearly totals of every active user with a contract
// @Tags Report
// @Produce json
// @Param year query int false "Year, defaults to the current year"
// @Success 200 {array} ReportDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid year"
// @Router /api/report/team [get]
// @Security XUserToken
func (h *Handler) GetTeamReports(w http.ResponseWriter, r *http.Request) {
	year, ok := h.parseYear(w, r)
	if !ok {
		return
	}

	reports, err := h.service.TeamReports(r.Context(), year)
	if err != nil {
		h.writeError(w, err)
		return
	}

	dtos := make([]ReportDTO, 0, len(reports))
	for _, report := range reports {
		dto := reportToDTO(report, h.weekStart)
		dto.Days = nil
		dto.Weeks = nil
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) parseYear(w http.ResponseWriter, r *http.Request) (int, bool) {
	yearString := r.URL.Query().Get("year")
	if yearString == "" {
		return h.clock.Now().In(h.loc).Year(), true
	}
	year, err := strconv.Atoi(yearString)
	if err != nil || year < 1 || year > 9999 {
		writeJSON(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:   "Invalid year",
			Details: "'year' must be a four digit number",
		})
		return 0, false
	}
	return year, true
}

func (h *Handler) writeReport(w http.ResponseWriter, r *http.Request, report *UserReport) {
	if r.Header.Get("Accept") == "text/csv" {
		csv, err := h.renderer.Render(report)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv report: %v", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, reportToDTO(report, h.weekStart))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser), errors.Is(err, user.ErrUserNotFound):
		writeJSON(w, http.StatusForbidden, rest.ErrorResponse{Error: "User not found"})
	case errors.Is(err, ErrInvalidDateRange):
		writeJSON(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid date range", Details: err.Error()})
	case errors.Is(err, contract.ErrNoEffectiveContract):
		writeJSON(w, http.StatusNotFound, rest.ErrorResponse{Error: "No contract", Details: err.Error()})
	default:
		log.Errorf("failed to build report: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func reportToDTO(report *UserReport, weekStart time.Weekday) ReportDTO {
	days := make([]DayEntryDTO, 0, len(report.days))
	for _, d := range report.days {
		days = append(days, dayToDTO(d))
	}
	months := make([]PeriodSummaryDTO, 0, 12)
	for _, s := range report.MonthlySummaries() {
		months = append(months, summaryToDTO(s))
	}
	weeks := make([]PeriodSummaryDTO, 0, 53)
	for _, s := range report.WeeklySummaries(weekStart) {
		weeks = append(weeks, summaryToDTO(s))
	}

	return ReportDTO{
		UserId:      report.User.Id,
		UserName:    report.User.Name,
		Year:        report.Year,
		From:        report.From.Format(time.DateOnly),
		To:          report.To.Format(time.DateOnly),
		WorkingDays: report.WorkingDays(),
		Holidays: HolidaysDTO{
			Entitlement: report.PersonalHolidays(),
			Planned:     report.PersonalHolidaysPlanned(),
			Past:        report.PersonalHolidaysPast(),
		},
		Total:  summaryToDTO(report.YearlySummary()),
		Months: months,
		Weeks:  weeks,
		Days:   days,
	}
}

func dayToDTO(d DayEntry) DayEntryDTO {
	dto := DayEntryDTO{
		Date:                d.Date.Format(time.DateOnly),
		Weekday:             d.Weekday().String(),
		WorkingDay:          d.IsWorkingDay(),
		BusinessHoliday:     d.BusinessHoliday,
		PersonalHoliday:     d.PersonalHoliday,
		PersonalHolidayKind: d.PersonalHolidayKind().String(),
		TimeTarget:          int(d.TimeTarget.Seconds()),
		TimeActual:          int(d.TimeActual.Seconds()),
		TimeStatus:          d.TimeStatus,
		BillableTarget:      int(d.BillableTarget.Seconds()),
		BillableActual:      int(d.BillableActual.Seconds()),
		BillableStatus:      d.BillableStatus,
		RevenueTarget:       d.RevenueTarget,
		RevenueActual:       d.RevenueActual,
		RevenueStatus:       d.RevenueStatus,
	}
	if d.Contract != nil {
		id := d.Contract.Id
		dto.ContractId = &id
	}
	return dto
}

func summaryToDTO(s PeriodSummary) PeriodSummaryDTO {
	return PeriodSummaryDTO{
		Label:            s.Label,
		From:             s.From.Format(time.DateOnly),
		To:               s.To.Format(time.DateOnly),
		TargetDays:       s.TargetDays,
		PersonalHolidays: s.PersonalHolidays,
		TimeTarget:       int(s.TimeTarget.Seconds()),
		TimeActual:       int(s.TimeActual.Seconds()),
		TimeStatus:       s.TimeStatus,
		BillableTarget:   int(s.BillableTarget.Seconds()),
		BillableActual:   int(s.BillableActual.Seconds()),
		BillableStatus:   s.BillableStatus,
		RevenueTarget:    s.RevenueTarget,
		RevenueActual:    s.RevenueActual,
		RevenueStatus:    s.RevenueStatus,
		Costs:            s.Costs,
		CostsStatus:      s.CostsStatus,
	}
}
