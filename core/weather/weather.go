package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL     = "https://api.openweathermap.org/data/2.5/weather"
	defaultForecastURL = "https://api.openweathermap.org/data/2.5/forecast"
	defaultHomeCity    = "Edinburgh"
)

// forecastHorizonDays is how far ahead the forecast endpoint can see.
const forecastHorizonDays = 5

// Client answers weather questions through the OpenWeatherMap API. Current
// conditions and five-day forecasts are supported; everything is reported in
// metric units.
type Client struct {
	apiKey      string
	baseURL     string
	forecastURL string
	homeCity    string
	httpClient  *http.Client

	now func() time.Time
}

type ClientOption func(*Client)

// WithHomeCity sets the fallback city used when a question names no location.
func WithHomeCity(city string) ClientOption {
	return func(c *Client) { c.homeCity = city }
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = client }
}

// WithBaseURLs overrides the API endpoints.
func WithBaseURLs(current, forecast string) ClientOption {
	return func(c *Client) {
		c.baseURL = current
		c.forecastURL = forecast
	}
}

func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:      apiKey,
		baseURL:     defaultBaseURL,
		forecastURL: defaultForecastURL,
		homeCity:    defaultHomeCity,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// conditions is the subset of the OpenWeatherMap payload the responses use.
// The forecast endpoint reuses the same shape per 3-hour entry.
type conditions struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	DateTimeText string `json:"dt_txt"`
}

func (c conditions) description() string {
	if len(c.Weather) == 0 {
		return "unknown conditions"
	}
	return c.Weather[0].Description
}

// Answer routes a weather question to the current-conditions or forecast
// endpoint. Expected failures, like an unknown city, come back as friendly
// responses rather than errors.
func (c *Client) Answer(ctx context.Context, utterance string) (string, error) {
	ctx, span := tracer.Start(ctx, "answer weather query")
	defer span.End()

	location := c.extractLocation(utterance)

	if isForecastQuery(utterance) {
		date := c.extractDate(utterance)
		return c.forecast(ctx, location, date)
	}
	return c.current(ctx, location)
}

func (c *Client) current(ctx context.Context, location string) (string, error) {
	var current conditions
	notFound, err := c.get(ctx, c.baseURL, location, &current)
	if err != nil {
		return "", err
	}
	if notFound {
		return fmt.Sprintf("I couldn't find weather information for '%s'. Please check the location name and try again.", location), nil
	}

	return fmt.Sprintf(
		"Current weather in %s: %s. Temperature is %d°C, feels like %d°C. Humidity is %d%% with wind speeds of %v m/s.",
		current.Name,
		current.description(),
		roundDegrees(current.Main.Temp),
		roundDegrees(current.Main.FeelsLike),
		current.Main.Humidity,
		current.Wind.Speed,
	), nil
}

func (c *Client) forecast(ctx context.Context, location string, date time.Time) (string, error) {
	daysFromNow := daysBetween(c.now(), date)
	if daysFromNow < 0 {
		return "I can't provide weather forecasts for past dates.", nil
	}
	if daysFromNow > forecastHorizonDays {
		return fmt.Sprintf("I can only provide weather forecasts up to %d days in advance. The date you requested is %d days from now.", forecastHorizonDays, daysFromNow), nil
	}

	var payload struct {
		List []conditions `json:"list"`
	}
	notFound, err := c.get(ctx, c.forecastURL, location, &payload)
	if err != nil {
		return "", err
	}
	if notFound {
		return fmt.Sprintf("I couldn't find weather information for '%s'. Please check the location name and try again.", location), nil
	}

	formattedDate := date.Format("Monday, January 02")

	// Entries come in 3-hour intervals; prefer noon as the representative
	// sample, otherwise take the middle of the day.
	var dayEntries []conditions
	targetDate := date.Format("2006-01-02")
	for _, entry := range payload.List {
		if len(entry.DateTimeText) >= 10 && entry.DateTimeText[:10] == targetDate {
			dayEntries = append(dayEntries, entry)
		}
	}
	if len(dayEntries) == 0 {
		return fmt.Sprintf("I couldn't find weather forecast data for %s.", formattedDate), nil
	}

	sample := dayEntries[len(dayEntries)/2]
	for _, entry := range dayEntries {
		if len(entry.DateTimeText) > 11 && entry.DateTimeText[11:] == "12:00:00" {
			sample = entry
			break
		}
	}

	return fmt.Sprintf(
		"Weather forecast for %s on %s: %s. Expected temperature around %d°C, feeling like %d°C. Humidity will be around %d%% with wind speeds of %v m/s.",
		location,
		formattedDate,
		sample.description(),
		roundDegrees(sample.Main.Temp),
		roundDegrees(sample.Main.FeelsLike),
		sample.Main.Humidity,
		sample.Wind.Speed,
	), nil
}

// get calls an OpenWeatherMap endpoint. A 404 reports notFound=true so the
// caller can answer with a friendly message.
func (c *Client) get(ctx context.Context, endpoint, location string, out any) (notFound bool, err error) {
	query := url.Values{
		"q":     {location},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("failed to create weather request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to reach weather service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return true, nil
	}
	if res.StatusCode != http.StatusOK {
		return false, fmt.Errorf("weather service returned %s", res.Status)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return false, fmt.Errorf("failed to decode weather response: %w", err)
	}
	return false, nil
}

func roundDegrees(degrees float64) int {
	return int(math.Round(degrees))
}

// daysBetween counts calendar days from one instant's local date to
// another's. Comparing local midnights keeps late-night questions on the
// right day regardless of the zone's UTC offset.
func daysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())
	return int(math.Round(toDay.Sub(fromDay).Hours() / 24))
}
