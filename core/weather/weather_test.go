package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const currentPayload = `{
	"name": "Edinburgh",
	"weather": [{"description": "light rain"}],
	"main": {"temp": 11.4, "feels_like": 9.6, "humidity": 87},
	"wind": {"speed": 5.2}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-key",
		WithBaseURLs(server.URL+"/weather", server.URL+"/forecast"),
		WithHTTPClient(server.Client()),
	)
}

func TestAnswerCurrentWeather(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/weather" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		if r.URL.Query().Get("units") != "metric" {
			t.Errorf("expected metric units")
		}
		w.Write([]byte(currentPayload))
	})

	answer, err := client.Answer(context.Background(), "what's the weather in Edinburgh?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Current weather in Edinburgh: light rain. Temperature is 11°C, feels like 10°C. Humidity is 87% with wind speeds of 5.2 m/s."
	if answer != want {
		t.Errorf("unexpected answer:\n got %q\nwant %q", answer, want)
	}
	if gotQuery != "edinburgh" {
		t.Errorf("unexpected location %q", gotQuery)
	}
}

func TestAnswerDefaultsToHomeCity(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(currentPayload))
	})

	if _, err := client.Answer(context.Background(), "what's the weather like today?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "Edinburgh" {
		t.Errorf("expected home city fallback, got %q", gotQuery)
	}
}

func TestAnswerUnknownLocation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	answer, err := client.Answer(context.Background(), "what's the weather in Atlantis?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(answer, "couldn't find weather information") {
		t.Errorf("unexpected answer %q", answer)
	}
}

func TestAnswerServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := client.Answer(context.Background(), "weather in Edinburgh"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestAnswerForecast(t *testing.T) {
	now := time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"list": [
			{"dt_txt": "2025-03-21 09:00:00", "weather": [{"description": "overcast"}], "main": {"temp": 8.0, "feels_like": 6.0, "humidity": 90}, "wind": {"speed": 4}},
			{"dt_txt": "2025-03-21 12:00:00", "weather": [{"description": "scattered clouds"}], "main": {"temp": 12.6, "feels_like": 11.2, "humidity": 72}, "wind": {"speed": 3.1}}
		]}`))
	})
	client.now = func() time.Time { return now }

	answer, err := client.Answer(context.Background(), "what's the weather in Glasgow tomorrow?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(answer, "Weather forecast for glasgow on Friday, March 21") {
		t.Errorf("unexpected answer %q", answer)
	}
	if !strings.Contains(answer, "scattered clouds") {
		t.Errorf("expected the noon entry to be used, got %q", answer)
	}
	if !strings.Contains(answer, "around 13°C") {
		t.Errorf("unexpected temperature in %q", answer)
	}
}

func TestAnswerForecastTooFarAhead(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("expected no request for out-of-range forecast")
	})
	client.now = func() time.Time { return time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC) }

	answer, err := client.Answer(context.Background(), "forecast for next April 20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(answer, "up to 5 days in advance") {
		t.Errorf("unexpected answer %q", answer)
	}
}

func TestAnswerForecastPastDateJustAfterMidnight(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("expected no request for a past-date forecast")
	})
	// 00:30 local in a UTC+1 zone; the previous calendar day must still be
	// refused as past.
	zone := time.FixedZone("UTC+1", 3600)
	client.now = func() time.Time { return time.Date(2025, 3, 20, 0, 30, 0, 0, zone) }

	answer, err := client.Answer(context.Background(), "forecast for March 19 in Glasgow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(answer, "past dates") {
		t.Errorf("unexpected answer %q", answer)
	}
}

func TestDaysBetween(t *testing.T) {
	zone := time.FixedZone("UTC+1", 3600)
	lateNight := time.Date(2025, 3, 20, 0, 30, 0, 0, zone)

	for _, tc := range []struct {
		name string
		from time.Time
		to   time.Time
		days int
	}{
		{"same day", lateNight, time.Date(2025, 3, 20, 23, 0, 0, 0, zone), 0},
		{"tomorrow just after midnight", lateNight, lateNight.AddDate(0, 0, 1), 1},
		{"yesterday just after midnight", lateNight, time.Date(2025, 3, 19, 0, 0, 0, 0, zone), -1},
		{"five days out", lateNight, time.Date(2025, 3, 25, 0, 0, 0, 0, zone), 5},
	} {
		if got := daysBetween(tc.from, tc.to); got != tc.days {
			t.Errorf("%s: expected %d days, got %d", tc.name, tc.days, got)
		}
	}
}

func TestIsWeatherQuery(t *testing.T) {
	client := NewClient("test-key")

	for _, utterance := range []string{
		"what's the weather like",
		"will it rain tomorrow",
		"how many degrees is it outside",
	} {
		if !client.IsWeatherQuery(utterance) {
			t.Errorf("expected %q to be a weather query", utterance)
		}
	}
	if client.IsWeatherQuery("add an event to my calendar") {
		t.Errorf("expected calendar request to not be a weather query")
	}
}

func TestExtractDate(t *testing.T) {
	client := NewClient("test-key")
	now := time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC) // a Thursday
	client.now = func() time.Time { return now }

	cases := []struct {
		utterance string
		wantDay   int
	}{
		{"forecast for tomorrow", 21},
		{"weather today", 20},
		{"forecast for the day after tomorrow", 22},
		{"weather this weekend", 22},
		{"forecast", 21},
	}
	for _, tc := range cases {
		if got := client.extractDate(tc.utterance); got.Day() != tc.wantDay {
			t.Errorf("%q: expected day %d, got %d", tc.utterance, tc.wantDay, got.Day())
		}
	}
}

func TestExtractLocationFiltersFillerWords(t *testing.T) {
	client := NewClient("test-key")

	if got := client.extractLocation("what's the weather in London today"); got != "london" {
		t.Errorf("expected %q, got %q", "london", got)
	}
}
