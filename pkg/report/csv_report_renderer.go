package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

type Renderer interface {
	Render(report *UserReport) (string, error)
}

type CsvReportRendererImpl struct {
}

func NewCsvReportRenderer() *CsvReportRendererImpl {
	return &CsvReportRendererImpl{}
}

var csvHeader = []string{
	"Date", "Weekday", "Contract", "Business holiday", "Personal holiday",
	"Time target", "Time actual", "Time status",
	"Billable target", "Billable actual", "Billable status",
	"Revenue target", "Revenue actual", "Revenue status",
}

func (t *CsvReportRendererImpl) Render(report *UserReport) (string, error) {
	data := make([][]string, 0, len(report.days)+16)
	data = append(data, csvHeader)
	for _, day := range report.days {
		data = append(data, dayRow(day))
	}
	for _, month := range report.MonthlySummaries() {
		data = append(data, summaryRow(month))
	}
	data = append(data, summaryRow(report.YearlySummary()))
	data = append(data,
		[]string{"Holidays", strconv.Itoa(report.PersonalHolidays())},
		[]string{"Holidays planned", strconv.Itoa(report.PersonalHolidaysPlanned())},
		[]string{"Holidays taken", strconv.Itoa(report.PersonalHolidaysPast())},
	)

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func dayRow(day DayEntry) []string {
	contractId := ""
	if day.Contract != nil {
		contractId = strconv.Itoa(day.Contract.Id)
	}
	personal := day.PersonalHoliday
	if kind := day.PersonalHolidayKind(); kind == ExcusedHoliday || kind == OvertimeHoliday {
		personal += " (" + kind.String() + ")"
	}
	return []string{
		day.Date.Format("02/01/2006"),
		day.Weekday().String(),
		contractId,
		day.BusinessHoliday,
		personal,
		durationToString(day.TimeTarget),
		durationToString(day.TimeActual),
		statusToString(day.TimeStatus),
		durationToString(day.BillableTarget),
		durationToString(day.BillableActual),
		statusToString(day.BillableStatus),
		moneyToString(day.RevenueTarget),
		moneyToString(day.RevenueActual),
		statusToString(day.RevenueStatus),
	}
}

func summaryRow(s PeriodSummary) []string {
	return []string{
		s.Label,
		"",
		"",
		"",
		strconv.Itoa(s.PersonalHolidays),
		durationToString(s.TimeTarget),
		durationToString(s.TimeActual),
		statusToString(s.TimeStatus),
		durationToString(s.BillableTarget),
		durationToString(s.BillableActual),
		statusToString(s.BillableStatus),
		moneyToString(s.RevenueTarget),
		moneyToString(s.RevenueActual),
		statusToString(s.RevenueStatus),
	}
}

func durationToString(duration time.Duration) string {
	hours := strconv.Itoa(int(duration.Hours()))
	if len(hours) == 1 {
		hours = "0" + hours
	}
	minutes := strconv.Itoa(int(duration.Minutes()) % 60)
	if len(minutes) == 1 {
		minutes = "0" + minutes
	}
	seconds := strconv.Itoa(int(duration.Seconds()) % 60)
	if len(seconds) == 1 {
		seconds = "0" + seconds
	}
	return hours + ":" + minutes + ":" + seconds
}

func statusToString(status *float64) string {
	if status == nil {
		return ""
	}
	return strconv.FormatFloat(*status, 'f', 2, 64)
}

func moneyToString(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
