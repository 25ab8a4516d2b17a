package utils

import (
	"math"
	"time"
)

// RoundCurrency rounds a monetary amount to 2 decimal places. Applied once
// at price-computation time so stored prices are stable.
func RoundCurrency(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// HoursBetween returns the fractional number of hours from start to end.
func HoursBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// BookingPrice computes the charge for occupying a spot at the given hourly
// rate for the given fractional hours, rounded to 2 decimals.
func BookingPrice(ratePerHour, hours float64) float64 {
	return RoundCurrency(ratePerHour * hours)
}
