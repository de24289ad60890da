package timerecord

import (
	"strings"
	"testing"
	"time"

	"github.com/crewtrack/crewtrack/pkg/model"
)

func TestComputeHoursOvertime(t *testing.T) {
	checkIn := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	total, overtime := ComputeHours(checkIn, checkIn.Add(9*time.Hour+30*time.Minute))
	if total != 9.5 {
		t.Errorf("expected total 9.5, got %v", total)
	}
	if overtime != 1.5 {
		t.Errorf("expected overtime 1.5, got %v", overtime)
	}
	if regular := total - overtime; regular != 8 {
		t.Errorf("expected regular 8, got %v", regular)
	}
}

func TestComputeHoursNoOvertime(t *testing.T) {
	checkIn := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	total, overtime := ComputeHours(checkIn, checkIn.Add(6*time.Hour))
	if total != 6 {
		t.Errorf("expected total 6, got %v", total)
	}
	if overtime != 0 {
		t.Errorf("expected overtime 0, got %v", overtime)
	}
}

func TestComputeHoursRounding(t *testing.T) {
	checkIn := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	total, _ := ComputeHours(checkIn, checkIn.Add(7*time.Hour+17*time.Minute))
	if total != 7.28 {
		t.Errorf("expected total 7.28, got %v", total)
	}
}

func TestEvaluateGeofenceInside(t *testing.T) {
	lat, lon := 45.0, 7.0
	site := &model.Site{Latitude: &lat, Longitude: &lon, GeofenceRadius: 100}

	result := EvaluateGeofence(site, 45.0003, 7.0)
	if !result.Within {
		t.Errorf("expected within geofence at %.0fm", result.DistanceMeters)
	}
	if result.Suspicious {
		t.Error("expected not suspicious inside the geofence")
	}
}

func TestEvaluateGeofenceOutside(t *testing.T) {
	lat, lon := 45.0, 7.0
	site := &model.Site{Latitude: &lat, Longitude: &lon, GeofenceRadius: 100}

	result := EvaluateGeofence(site, 45.003, 7.0) // ~334m away
	if result.Within {
		t.Fatal("expected outside geofence")
	}
	if !result.Suspicious {
		t.Fatal("expected suspicious flag outside geofence")
	}
	if !strings.Contains(result.Reason, "334") {
		t.Errorf("expected reason to embed the rounded distance, got %q", result.Reason)
	}
}

func TestEvaluateGeofenceSkippedWithoutCoordinates(t *testing.T) {
	result := EvaluateGeofence(&model.Site{GeofenceRadius: 100}, 45.0, 7.0)
	if !result.Within {
		t.Error("a site without coordinates must skip the check and count as within")
	}
	if result.Suspicious {
		t.Error("expected not suspicious when the check is skipped")
	}
}

func TestEvaluateGeofenceDefaultRadius(t *testing.T) {
	lat, lon := 45.0, 7.0
	site := &model.Site{Latitude: &lat, Longitude: &lon} // no radius configured

	if result := EvaluateGeofence(site, 45.0005, 7.0); result.Within { // ~56m... inside default
		if result.DistanceMeters > DefaultGeofenceRadius {
			t.Errorf("within=true beyond the default radius (%.0fm)", result.DistanceMeters)
		}
	}
	if result := EvaluateGeofence(site, 45.002, 7.0); result.Within { // ~222m
		t.Error("expected outside the 100m default radius")
	}
}

func TestCanDecide(t *testing.T) {
	cases := []struct {
		status model.TimeRecordStatus
		want   bool
	}{
		{model.TimeRecordPending, true},
		{model.TimeRecordContested, true},
		{model.TimeRecordApproved, false},
		{model.TimeRecordRejected, false},
	}
	for _, c := range cases {
		if got := CanDecide(c.status); got != c.want {
			t.Errorf("CanDecide(%s) = %v, want %v", c.status, got, c.want)
		}
	}
}
