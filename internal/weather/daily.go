package weather

import (
	"fmt"
	"math"
	"time"
)

// DailyForecast is one day card.
type DailyForecast struct {
	Day       string `json:"day"`
	Temp      string `json:"temp"`
	Condition string `json:"condition"`
	Icon      Icon   `json:"icon"`
}

// Daily converts the API forecast into day cards labelled Today, Tomorrow
// and then the weekday name.
func Daily(f *Forecast, icons *IconTable) []DailyForecast {
	if icons == nil {
		icons = DefaultIcons
	}
	out := make([]DailyForecast, 0, len(f.Forecast.ForecastDay))
	for i, d := range f.Forecast.ForecastDay {
		out = append(out, DailyForecast{
			Day:       dayLabel(i, d.Date),
			Temp:      fmt.Sprintf("%d°C", int(math.Round(d.Day.MaxTempC))),
			Condition: d.Day.Condition.Text,
			Icon:      icons.Lookup(d.Day.Condition.Code),
		})
	}
	return out
}

func dayLabel(index int, date string) string {
	switch index {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Weekday().String()
}
