// Package units holds the pure conversion helpers shared by both
// endpoints. Everything internal is canonical metric (meters, seconds,
// Celsius); these functions derive the display values.
package units

import "fmt"

const (
	metersPerMile = 1609.344
	milesPerMeter = 0.000621371
	feetPerMeter  = 3.28084
)

func MetersToKm(meters float64) float64 {
	return meters / 1000
}

func MetersToMiles(meters float64) float64 {
	return meters * milesPerMeter
}

func MetersToFeet(meters float64) float64 {
	return meters * feetPerMeter
}

func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// SecondsToMinutes rounds to the nearest whole minute.
func SecondsToMinutes(seconds int) int {
	return int(float64(seconds)/60 + 0.5)
}

// Pace formats minutes-per-kilometer (metric) or minutes-per-mile
// (imperial) as "M:SS". Minutes are truncated and the remainder becomes
// zero-padded seconds. Zero distance or duration yields "0:00" rather
// than dividing by zero.
func Pace(distanceMeters float64, durationSeconds int, metric bool) string {
	if distanceMeters == 0 || durationSeconds == 0 {
		return "0:00"
	}

	var minutesPerUnit float64
	if metric {
		minutesPerUnit = float64(durationSeconds) / 60 / MetersToKm(distanceMeters)
	} else {
		minutesPerUnit = float64(durationSeconds) / 60 / MetersToMiles(distanceMeters)
	}

	mins := int(minutesPerUnit)
	secs := int((minutesPerUnit - float64(mins)) * 60)
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// Round1 and Round2 are the display precisions used across the API.
func Round1(v float64) float64 {
	return roundTo(v, 10)
}

func Round2(v float64) float64 {
	return roundTo(v, 100)
}

func roundTo(v float64, factor float64) float64 {
	if v < 0 {
		return float64(int(v*factor-0.5)) / factor
	}
	return float64(int(v*factor+0.5)) / factor
}
