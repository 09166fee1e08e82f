package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lensbox/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRentalDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"same day counts as one", "2024-01-01", "2024-01-01", 1},
		{"two calendar days", "2024-01-01", "2024-01-02", 2},
		{"inclusive range", "2024-01-01", "2024-01-03", 3},
		{"across month boundary", "2024-01-30", "2024-02-02", 4},
		{"across year boundary", "2023-12-30", "2024-01-02", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RentalDays(day(tt.start), day(tt.end)))
		})
	}
}

func TestRentalDaysEndBeforeStart(t *testing.T) {
	assert.Equal(t, 0, RentalDays(day("2024-01-03"), day("2024-01-01")))
}

func TestSubtotal(t *testing.T) {
	items := []models.OrderItem{
		{Amount: 100, Quantity: 2},
		{Amount: 50, Quantity: 1},
	}
	assert.Equal(t, 250.0, Subtotal(items))
	assert.Equal(t, 0.0, Subtotal(nil))
}

func TestTotal(t *testing.T) {
	items := []models.OrderItem{
		{Amount: 100, Quantity: 2},
		{Amount: 50, Quantity: 1},
	}

	// Two items over a three-day rental: 250 * 3.
	assert.Equal(t, 750.0, Total(items, day("2024-01-01"), day("2024-01-03")))
}

func TestTotalMonotonic(t *testing.T) {
	items := []models.OrderItem{{Amount: 40, Quantity: 1}}
	base := Total(items, day("2024-03-01"), day("2024-03-02"))

	moreQty := Total([]models.OrderItem{{Amount: 40, Quantity: 2}}, day("2024-03-01"), day("2024-03-02"))
	longer := Total(items, day("2024-03-01"), day("2024-03-05"))

	assert.Greater(t, moreQty, base)
	assert.Greater(t, longer, base)
}
