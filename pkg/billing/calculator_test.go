package billing

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/crewtrack/crewtrack/pkg/model"
)

func approvedRecord(userID uuid.UUID, day int, total, overtime float64) model.TimeRecord {
	return model.TimeRecord{
		ID:            uuid.New(),
		UserID:        userID,
		CheckInTime:   time.Date(2025, 3, day, 8, 0, 0, 0, time.UTC),
		TotalHours:    total,
		OvertimeHours: overtime,
		Status:        model.TimeRecordApproved,
	}
}

func TestCalculateHourlyBilling(t *testing.T) {
	worker := uuid.New()
	site := model.Site{
		ID:          uuid.New(),
		Name:        "North Yard",
		BillingType: model.BillingHourly,
		HourlyRate:  "20",
	}

	// 40 regular hours plus 5 overtime across the week.
	records := []model.TimeRecord{
		approvedRecord(worker, 10, 9, 1),
		approvedRecord(worker, 11, 9, 1),
		approvedRecord(worker, 12, 9, 1),
		approvedRecord(worker, 13, 9, 1),
		approvedRecord(worker, 14, 9, 1),
	}

	orders, totals := Calculate([]SiteInput{{Site: site, Records: records}})
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}

	order := orders[0]
	if order.RegularHours != 40 {
		t.Errorf("expected 40 regular hours, got %v", order.RegularHours)
	}
	if order.OvertimeHours != 5 {
		t.Errorf("expected 5 overtime hours, got %v", order.OvertimeHours)
	}
	if order.RegularCost != 800.00 {
		t.Errorf("expected regular cost 800.00, got %v", order.RegularCost)
	}
	if order.OvertimeCost != 150.00 {
		t.Errorf("expected overtime cost 150.00, got %v", order.OvertimeCost)
	}
	if order.TotalCost != 950.00 {
		t.Errorf("expected total cost 950.00, got %v", order.TotalCost)
	}
	if totals.TotalCost != 950.00 {
		t.Errorf("expected grand total 950.00, got %v", totals.TotalCost)
	}
	if order.WorkerCount != 1 || order.WorkDayCount != 5 {
		t.Errorf("expected 1 worker over 5 days, got %d/%d", order.WorkerCount, order.WorkDayCount)
	}
}

func TestCalculateFixedBilling(t *testing.T) {
	site := model.Site{
		ID:          uuid.New(),
		Name:        "Flat Contract",
		BillingType: model.BillingFixed,
		HourlyRate:  "5000",
	}
	records := []model.TimeRecord{
		approvedRecord(uuid.New(), 10, 12, 4),
		approvedRecord(uuid.New(), 11, 9, 1),
	}

	orders, _ := Calculate([]SiteInput{{Site: site, Records: records}})
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	if orders[0].RegularCost != 5000.00 {
		t.Errorf("expected flat regular cost 5000.00, got %v", orders[0].RegularCost)
	}
	if orders[0].OvertimeCost != 0 {
		t.Errorf("expected overtime cost 0 for fixed billing, got %v", orders[0].OvertimeCost)
	}
	if orders[0].TotalCost != 5000.00 {
		t.Errorf("expected total cost 5000.00, got %v", orders[0].TotalCost)
	}
}

func TestCalculateDailyBilling(t *testing.T) {
	workerA := uuid.New()
	workerB := uuid.New()
	site := model.Site{
		ID:          uuid.New(),
		Name:        "Day Rate Site",
		BillingType: model.BillingDaily,
		HourlyRate:  "240", // daily rate
	}

	// Two workers on the same day, one of them again the next day: 2
	// distinct work days, 4 hours of overtime in total.
	records := []model.TimeRecord{
		approvedRecord(workerA, 10, 10, 2),
		approvedRecord(workerB, 10, 8, 0),
		approvedRecord(workerA, 11, 10, 2),
	}

	orders, _ := Calculate([]SiteInput{{Site: site, Records: records}})
	order := orders[0]

	if order.WorkDayCount != 2 {
		t.Fatalf("expected 2 distinct work days, got %d", order.WorkDayCount)
	}
	if order.RegularCost != 480.00 {
		t.Errorf("expected regular cost 480.00 (2 days x 240), got %v", order.RegularCost)
	}
	// 4h x (240/8) x 1.5 = 180.
	if order.OvertimeCost != 180.00 {
		t.Errorf("expected overtime cost 180.00, got %v", order.OvertimeCost)
	}
}

func TestCalculateExcludesPendingFromCost(t *testing.T) {
	worker := uuid.New()
	site := model.Site{ID: uuid.New(), BillingType: model.BillingHourly, HourlyRate: "10"}

	pending := approvedRecord(worker, 10, 8, 0)
	pending.Status = model.TimeRecordPending

	records := []model.TimeRecord{approvedRecord(worker, 11, 8, 0), pending}

	orders, _ := Calculate([]SiteInput{{Site: site, Records: records}})
	order := orders[0]

	if order.ApprovedCount != 1 || order.PendingCount != 1 {
		t.Fatalf("expected 1 approved and 1 pending, got %d/%d", order.ApprovedCount, order.PendingCount)
	}
	if order.TotalHours != 8 {
		t.Errorf("pending hours leaked into totals: %v", order.TotalHours)
	}
	if order.TotalCost != 80.00 {
		t.Errorf("expected cost 80.00 from approved only, got %v", order.TotalCost)
	}
}

func TestCalculateOmitsEmptySites(t *testing.T) {
	busy := model.Site{ID: uuid.New(), BillingType: model.BillingHourly, HourlyRate: "10"}
	idle := model.Site{ID: uuid.New(), BillingType: model.BillingHourly, HourlyRate: "99"}

	orders, totals := Calculate([]SiteInput{
		{Site: idle},
		{Site: busy, Records: []model.TimeRecord{approvedRecord(uuid.New(), 10, 4, 0)}},
	})

	if len(orders) != 1 {
		t.Fatalf("expected the idle site to be omitted, got %d orders", len(orders))
	}
	if orders[0].SiteID != busy.ID {
		t.Error("wrong site survived")
	}
	if totals.SiteCount != 1 {
		t.Errorf("expected site count 1, got %d", totals.SiteCount)
	}
}

func TestCalculateSortsByTotalCostDescending(t *testing.T) {
	cheap := model.Site{ID: uuid.New(), Name: "cheap", BillingType: model.BillingHourly, HourlyRate: "5"}
	costly := model.Site{ID: uuid.New(), Name: "costly", BillingType: model.BillingHourly, HourlyRate: "50"}

	orders, _ := Calculate([]SiteInput{
		{Site: cheap, Records: []model.TimeRecord{approvedRecord(uuid.New(), 10, 8, 0)}},
		{Site: costly, Records: []model.TimeRecord{approvedRecord(uuid.New(), 10, 8, 0)}},
	})

	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].SiteName != "costly" {
		t.Errorf("expected costly site first, got %q", orders[0].SiteName)
	}
}

func TestCalculateIdempotent(t *testing.T) {
	worker := uuid.New()
	inputs := []SiteInput{
		{
			Site: model.Site{ID: uuid.New(), Name: "A", BillingType: model.BillingDaily, HourlyRate: "160"},
			Records: []model.TimeRecord{
				approvedRecord(worker, 10, 9.25, 1.25),
				approvedRecord(worker, 11, 7.5, 0),
			},
		},
		{
			Site:    model.Site{ID: uuid.New(), Name: "B", BillingType: model.BillingHourly, HourlyRate: "33,50"},
			Records: []model.TimeRecord{approvedRecord(uuid.New(), 12, 8, 0)},
		},
	}

	firstOrders, firstTotals := Calculate(inputs)
	secondOrders, secondTotals := Calculate(inputs)

	if !reflect.DeepEqual(firstOrders, secondOrders) {
		t.Error("repeated calculation produced different orders")
	}
	if !reflect.DeepEqual(firstTotals, secondTotals) {
		t.Error("repeated calculation produced different totals")
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"20", 20},
		{"33.50", 33.5},
		{"33,50", 33.5},
		{" 12,75 ", 12.75},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
	}
	for _, c := range cases {
		if got := ParseAmount(c.in); got != c.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestRound2HalfUp(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0.125, 0.13},
		{0.114, 0.11},
		{2.718, 2.72},
		{950, 950},
		{0, 0},
	}
	for _, c := range cases {
		if got := Round2(c.in); got != c.want {
			t.Errorf("Round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
