package weather

import (
	"regexp"
	"strings"
	"time"
)

var weatherKeywords = []string{
	"weather", "temperature", "forecast", "rain", "sunny", "cloudy",
	"snow", "hot", "cold", "humid", "precipitation", "storm",
	"thunderstorm", "climate", "degrees", "celsius", "fahrenheit",
}

var weatherPhrases = []string{
	"how's the weather", "how is the weather", "what's the weather",
	"what is the weather", "weather like",
}

var forecastKeywords = []string{"forecast", "tomorrow", "weekend", "next", "upcoming"}

// IsWeatherQuery reports whether an utterance asks about the weather.
func (c *Client) IsWeatherQuery(utterance string) bool {
	lowered := strings.ToLower(utterance)
	for _, keyword := range weatherKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	for _, phrase := range weatherPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

func isForecastQuery(utterance string) bool {
	lowered := strings.ToLower(utterance)
	for _, keyword := range forecastKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// "weather like today" would otherwise match the location patterns as the
// location "like today".
var weatherLikeDay = regexp.MustCompile(`(?i)weather\s+like\s+(today|tomorrow)`)

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:weather|temperature|forecast)(?:\s+(?:in|at|for|of))?\s+([A-Za-z\s]+(?:,\s*[A-Za-z\s]+)?)`),
	regexp.MustCompile(`(?i)(?:in|at|for)\s+([A-Za-z\s]+(?:,\s*[A-Za-z\s]+)?)\s+(?:weather|temperature|forecast)`),
	regexp.MustCompile(`(?i)(?:how's|what's|how is|what is)(?:\s+the)?\s+weather(?:\s+(?:in|at|for))?\s+([A-Za-z\s]+(?:,\s*[A-Za-z\s]+)?)`),
}

var trailingPunctuation = regexp.MustCompile(`[^\w\s,]`)

// locationFilterWords are time expressions and filler words that the location
// patterns tend to capture but that never name a place.
var locationFilterWords = map[string]struct{}{
	"today": {}, "tomorrow": {}, "tonight": {}, "morning": {}, "afternoon": {}, "evening": {},
	"weekend": {}, "week": {}, "month": {}, "year": {}, "current": {}, "now": {}, "later": {}, "soon": {},
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {}, "friday": {}, "saturday": {}, "sunday": {},
	"like": {}, "going": {}, "to": {}, "be": {}, "the": {}, "will": {}, "is": {}, "are": {}, "was": {}, "were": {}, "am": {},
}

// extractLocation pulls the city out of a weather question, falling back to
// the configured home city.
func (c *Client) extractLocation(utterance string) string {
	utterance = weatherLikeDay.ReplaceAllString(utterance, "weather today")

	for _, pattern := range locationPatterns {
		match := pattern.FindStringSubmatch(utterance)
		if match == nil {
			continue
		}

		location := strings.TrimSpace(trailingPunctuation.ReplaceAllString(match[1], ""))

		var kept []string
		for _, word := range strings.Fields(strings.ToLower(location)) {
			if _, filtered := locationFilterWords[word]; !filtered {
				kept = append(kept, word)
			}
		}
		if len(kept) > 0 {
			return strings.Join(kept, " ")
		}
	}
	return c.homeCity
}

var spelledDate = regexp.MustCompile(`(?i)(?:on|for|this|next)\s+([A-Za-z]+\s+\d{1,2}(?:st|nd|rd|th)?|\d{1,2}(?:st|nd|rd|th)?\s+[A-Za-z]+)`)

var ordinalSuffix = regexp.MustCompile(`(?i)(\d{1,2})(?:st|nd|rd|th)`)

// extractDate resolves the day a forecast question refers to. Questions with
// no recognizable date default to tomorrow.
func (c *Client) extractDate(utterance string) time.Time {
	now := c.now()
	lowered := strings.ToLower(utterance)

	switch {
	case strings.Contains(lowered, "day after tomorrow"), strings.Contains(lowered, "in 2 days"):
		return now.AddDate(0, 0, 2)
	case strings.Contains(lowered, "tomorrow"):
		return now.AddDate(0, 0, 1)
	case strings.Contains(lowered, "today"):
		return now
	}

	if match := spelledDate.FindStringSubmatch(utterance); match != nil {
		spelled := ordinalSuffix.ReplaceAllString(match[1], "$1")
		for _, layout := range []string{"January 2", "2 January", "Jan 2", "2 Jan"} {
			if parsed, err := time.Parse(layout, spelled); err == nil {
				return time.Date(now.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
			}
		}
	}

	if strings.Contains(lowered, "weekend") {
		daysUntilSaturday := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
		if daysUntilSaturday == 0 {
			daysUntilSaturday = 7
		}
		return now.AddDate(0, 0, daysUntilSaturday)
	}

	return now.AddDate(0, 0, 1)
}
