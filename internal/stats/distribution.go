package stats

import (
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/samber/lo"
)

// ByWeekday buckets dates by weekday, 0 is Sunday
func ByWeekday(dates []time.Time) [7]int {
	var buckets [7]int
	for _, d := range dates {
		buckets[d.Weekday()]++
	}
	return buckets
}

// ByMonth buckets dates by month, 0 is January
func ByMonth(dates []time.Time) [12]int {
	var buckets [12]int
	for _, d := range dates {
		buckets[d.Month()-1]++
	}
	return buckets
}

// Dates extracts the eating date of every pizza row
func Dates(rows []models.PizzaRow) []time.Time {
	return lo.Map(rows, func(r models.PizzaRow, _ int) time.Time { return r.EatenAt })
}

// WeekBucket is one fixed 7-day window of a period
type WeekBucket struct {
	Week    int       `json:"week"`
	Start   time.Time `json:"start"`
	Pizzas  int       `json:"pizzas"`
	Users   int       `json:"users"`
	Average float64   `json:"average"`
	Label   string    `json:"label"`
}

const day = 24 * time.Hour

// WeeklyAverage splits [start, end) into 7-day windows counted from start (not
// calendar weeks) and divides each window's pizzas by its distinct active users.
func WeeklyAverage(rows []models.PizzaRow, start, end time.Time) []WeekBucket {
	if !end.After(start) {
		return []WeekBucket{}
	}
	weeks := int((end.Sub(start) + 7*day - 1) / (7 * day))
	buckets := make([]WeekBucket, weeks)
	users := make([]map[uint]struct{}, weeks)
	for i := range buckets {
		buckets[i] = WeekBucket{Week: i + 1, Start: start.Add(time.Duration(i) * 7 * day)}
		users[i] = map[uint]struct{}{}
	}
	for _, r := range rows {
		if r.EatenAt.Before(start) || !r.EatenAt.Before(end) {
			continue
		}
		w := int(r.EatenAt.Sub(start) / (7 * day))
		buckets[w].Pizzas++
		users[w][r.UserID] = struct{}{}
	}
	for i := range buckets {
		buckets[i].Users = len(users[i])
		buckets[i].Average = Ratio(float64(buckets[i].Pizzas), float64(buckets[i].Users)).OrEmpty()
		buckets[i].Label = FormatDecimal(buckets[i].Average, 2)
	}
	return buckets
}

// YearBounds returns [Jan 1 of year, Jan 1 of year+1) in UTC
func YearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

// MonthBounds returns [first of month, first of next month) in UTC
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// InRange keeps pizza rows eaten in [from, to)
func InRange(rows []models.PizzaRow, from, to time.Time) []models.PizzaRow {
	return lo.Filter(rows, func(r models.PizzaRow, _ int) bool {
		return !r.EatenAt.Before(from) && r.EatenAt.Before(to)
	})
}
