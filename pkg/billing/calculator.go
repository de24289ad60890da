package billing

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/crewtrack/crewtrack/pkg/model"
)

const (
	// OvertimeMultiplier applies to overtime hours under hourly and daily
	// billing.
	OvertimeMultiplier = 1.5

	// DailyWorkHours converts a daily rate into an hourly one for overtime
	// pricing, and is the flat daily overtime threshold at check-out.
	DailyWorkHours = 8.0
)

// SiteInput pairs a site with the time records found for it in the queried
// period.
type SiteInput struct {
	Site    model.Site
	Records []model.TimeRecord
}

type SiteOrder struct {
	SiteID        uuid.UUID         `json:"siteId"`
	SiteName      string            `json:"siteName"`
	ClientID      *uuid.UUID        `json:"clientId,omitempty"`
	BillingType   model.BillingType `json:"billingType"`
	Rate          float64           `json:"rate"`
	RegularHours  float64           `json:"regularHours"`
	OvertimeHours float64           `json:"overtimeHours"`
	TotalHours    float64           `json:"totalHours"`
	WorkerCount   int               `json:"workerCount"`
	WorkDayCount  int               `json:"workDayCount"`
	ApprovedCount int               `json:"approvedCount"`
	PendingCount  int               `json:"pendingCount"`
	RegularCost   float64           `json:"regularCost"`
	OvertimeCost  float64           `json:"overtimeCost"`
	TotalCost     float64           `json:"totalCost"`
}

type Totals struct {
	RegularHours  float64 `json:"regularHours"`
	OvertimeHours float64 `json:"overtimeHours"`
	TotalHours    float64 `json:"totalHours"`
	RegularCost   float64 `json:"regularCost"`
	OvertimeCost  float64 `json:"overtimeCost"`
	TotalCost     float64 `json:"totalCost"`
	ApprovedCount int     `json:"approvedCount"`
	PendingCount  int     `json:"pendingCount"`
	SiteCount     int     `json:"siteCount"`
}

// Calculate aggregates time records into billable per-site orders. Only
// approved records contribute to hours and cost; pending ones are counted.
// Sites with no records in range are omitted. The computation is pure, so
// identical inputs always produce identical output.
func Calculate(sites []SiteInput) ([]SiteOrder, Totals) {
	orders := make([]SiteOrder, 0, len(sites))
	var totals Totals

	for _, input := range sites {
		if len(input.Records) == 0 {
			continue
		}
		order := calculateSite(input)
		orders = append(orders, order)

		totals.RegularHours += order.RegularHours
		totals.OvertimeHours += order.OvertimeHours
		totals.TotalHours += order.TotalHours
		totals.RegularCost += order.RegularCost
		totals.OvertimeCost += order.OvertimeCost
		totals.TotalCost += order.TotalCost
		totals.ApprovedCount += order.ApprovedCount
		totals.PendingCount += order.PendingCount
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].TotalCost > orders[j].TotalCost
	})

	totals.RegularHours = Round2(totals.RegularHours)
	totals.OvertimeHours = Round2(totals.OvertimeHours)
	totals.TotalHours = Round2(totals.TotalHours)
	totals.RegularCost = Round2(totals.RegularCost)
	totals.OvertimeCost = Round2(totals.OvertimeCost)
	totals.TotalCost = Round2(totals.TotalCost)
	totals.SiteCount = len(orders)

	return orders, totals
}

func calculateSite(input SiteInput) SiteOrder {
	var totalHours, overtimeHours float64
	workers := map[uuid.UUID]struct{}{}
	workDays := map[string]struct{}{}
	approved, pending := 0, 0

	for _, record := range input.Records {
		switch record.Status {
		case model.TimeRecordApproved:
			approved++
			totalHours += record.TotalHours
			overtimeHours += record.OvertimeHours
			workers[record.UserID] = struct{}{}
			workDays[record.CheckInTime.Format("2006-01-02")] = struct{}{}
		default:
			pending++
		}
	}

	regularHours := totalHours - overtimeHours
	if regularHours < 0 {
		regularHours = 0
	}

	rate := ParseAmount(input.Site.HourlyRate)
	var regularCost, overtimeCost float64

	switch input.Site.BillingType {
	case model.BillingDaily:
		regularCost = float64(len(workDays)) * rate
		overtimeCost = overtimeHours * (rate / DailyWorkHours) * OvertimeMultiplier
	case model.BillingFixed:
		regularCost = rate
		overtimeCost = 0
	default: // hourly
		regularCost = regularHours * rate
		overtimeCost = overtimeHours * rate * OvertimeMultiplier
	}

	regularCost = Round2(regularCost)
	overtimeCost = Round2(overtimeCost)

	return SiteOrder{
		SiteID:        input.Site.ID,
		SiteName:      input.Site.Name,
		ClientID:      input.Site.ClientID,
		BillingType:   input.Site.BillingType,
		Rate:          rate,
		RegularHours:  Round2(regularHours),
		OvertimeHours: Round2(overtimeHours),
		TotalHours:    Round2(totalHours),
		WorkerCount:   len(workers),
		WorkDayCount:  len(workDays),
		ApprovedCount: approved,
		PendingCount:  pending,
		RegularCost:   regularCost,
		OvertimeCost:  overtimeCost,
		TotalCost:     Round2(regularCost + overtimeCost),
	}
}

// Round2 rounds to two decimal places, half-up on cents.
func Round2(value float64) float64 {
	return math.Floor(value*100+0.5) / 100
}

// ParseAmount parses a numeric string, tolerating comma decimal separators.
// Unparseable or empty input coerces to 0 rather than propagating NaN.
func ParseAmount(value string) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	trimmed = strings.ReplaceAll(trimmed, ",", ".")
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0
	}
	return parsed
}
