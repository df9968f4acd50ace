package weather

import "time"

// ForecastHorizon is how far ahead of now hourly samples are kept.
const ForecastHorizon = 24 * time.Hour

// NowLabel is the time label of the first forecast item.
const NowLabel = "now"

// Window keeps every sample with now <= t <= now+24h (both ends inclusive),
// preserving input order. The first kept item is labelled "now" whatever its
// timestamp; the rest get a zero-padded 24-hour HH:mm in the sample's zone.
// No matching samples yields an empty, non-nil slice.
func Window(samples []HourlySample, now time.Time) []ForecastItem {
	end := now.Add(ForecastHorizon)
	items := make([]ForecastItem, 0, len(samples))
	for _, s := range samples {
		if s.Time.Before(now) || s.Time.After(end) {
			continue
		}
		label := s.Time.Format("15:04")
		if len(items) == 0 {
			label = NowLabel
		}
		items = append(items, ForecastItem{
			TimeLabel:        label,
			IconToken:        Icon(s.Condition),
			TemperatureLabel: FormatTemperature(s.Temperature),
		})
	}
	return items
}
