package timerecord

import (
	"fmt"
	"math"
	"time"

	"github.com/crewtrack/crewtrack/pkg/geo"
	"github.com/crewtrack/crewtrack/pkg/model"
)

// DefaultGeofenceRadius applies when a site has no radius configured.
const DefaultGeofenceRadius = 100.0

type GeofenceResult struct {
	Within         bool
	Suspicious     bool
	Reason         string
	DistanceMeters float64
}

// EvaluateGeofence checks supplied coordinates against the site's registered
// location. A site without coordinates skips the check entirely and the
// check-in counts as within bounds.
func EvaluateGeofence(site *model.Site, latitude, longitude float64) GeofenceResult {
	if site.Latitude == nil || site.Longitude == nil {
		return GeofenceResult{Within: true}
	}

	radius := site.GeofenceRadius
	if radius <= 0 {
		radius = DefaultGeofenceRadius
	}

	distance := geo.DistanceMeters(latitude, longitude, *site.Latitude, *site.Longitude)
	if distance <= radius {
		return GeofenceResult{Within: true, DistanceMeters: distance}
	}

	return GeofenceResult{
		Within:         false,
		Suspicious:     true,
		Reason:         fmt.Sprintf("checked in %.0fm from site, outside the %.0fm geofence", math.Round(distance), radius),
		DistanceMeters: distance,
	}
}

// ComputeHours returns elapsed wall-clock hours rounded to two decimals and
// the overtime portion beyond the flat daily threshold.
func ComputeHours(checkIn, checkOut time.Time) (total, overtime float64) {
	total = round2(checkOut.Sub(checkIn).Hours())
	if total < 0 {
		total = 0
	}
	overtime = round2(math.Max(0, total-dailyOvertimeThreshold))
	return total, overtime
}

const dailyOvertimeThreshold = 8.0

// CanDecide reports whether a record may still be approved or rejected.
// Contested records stay decidable so a dispute can be settled.
func CanDecide(status model.TimeRecordStatus) bool {
	return status == model.TimeRecordPending || status == model.TimeRecordContested
}

func round2(value float64) float64 {
	return math.Floor(value*100+0.5) / 100
}
