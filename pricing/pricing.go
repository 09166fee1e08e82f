// Package pricing computes rental charges. Rentals are priced per day,
// inclusive of both the start and end date, so a same-day rental counts
// as one day.
package pricing

import (
	"time"

	"lensbox/models"
)

// RentalDays returns the inclusive day count between start and end.
// Returns 0 if end precedes start.
func RentalDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Subtotal sums amount × quantity over the order lines.
func Subtotal(items []models.OrderItem) float64 {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Amount * float64(item.Quantity)
	}
	return subtotal
}

// Total is the subtotal multiplied by the rental duration.
func Total(items []models.OrderItem, start, end time.Time) float64 {
	return Subtotal(items) * float64(RentalDays(start, end))
}
