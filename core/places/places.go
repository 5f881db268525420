package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultBaseURL = "https://maps.googleapis.com"

const (
	textSearchPath = "/maps/api/place/textsearch/json"
	nearbyPath     = "/maps/api/place/nearbysearch/json"
	geocodePath    = "/maps/api/geocode/json"
	directionsPath = "/maps/api/directions/json"
)

// Origin is the point searches and directions fall back to when the question
// names no location.
type Origin struct {
	Name string
	Lat  float64
	Lng  float64
}

var defaultOrigin = Origin{
	Name: "Heriot-Watt University",
	Lat:  55.9086,
	Lng:  -3.3203,
}

// Client answers place searches, nearby lookups and direction requests
// through the Google Maps Platform web services.
type Client struct {
	apiKey     string
	baseURL    string
	origin     Origin
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithOrigin sets the fallback location for searches and directions.
func WithOrigin(origin Origin) ClientOption {
	return func(c *Client) { c.origin = origin }
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = client }
}

// WithBaseURL overrides the Google Maps endpoint root.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		origin:  defaultOrigin,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// place is the subset of a Places result the voice responses use.
type place struct {
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formatted_address"`
	Vicinity         string  `json:"vicinity"`
	Rating           float64 `json:"rating"`
	OpeningHours     *struct {
		OpenNow bool `json:"open_now"`
	} `json:"opening_hours"`
}

func (p place) address() string {
	if p.Vicinity != "" {
		return p.Vicinity
	}
	if p.FormattedAddress != "" {
		return p.FormattedAddress
	}
	return "Address not available"
}

type placesResponse struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
	Results      []place `json:"results"`
}

var directionsTerms = []string{"directions to", "how to get to", "route to"}

var nearbyTerms = []string{"nearest", "nearby", "closest", "near me"}

// Answer dispatches a place question to the directions, nearby or general
// search handler.
func (c *Client) Answer(ctx context.Context, utterance string) (string, error) {
	ctx, span := tracer.Start(ctx, "answer places query")
	defer span.End()

	query := strings.ToLower(utterance)

	for _, term := range directionsTerms {
		if strings.Contains(query, term) {
			return c.directions(ctx, query)
		}
	}
	for _, term := range nearbyTerms {
		if strings.Contains(query, term) {
			return c.nearby(ctx, query)
		}
	}
	return c.search(ctx, query)
}

// search runs a free-form text search, narrowed to a 5km radius when the
// query names a location.
func (c *Client) search(ctx context.Context, query string) (string, error) {
	params := url.Values{
		"key":      {c.apiKey},
		"query":    {query},
		"language": {"en"},
	}
	if location := c.extractLocation(ctx, query); location != nil {
		params.Set("location", fmt.Sprintf("%v,%v", location.Lat, location.Lng))
		params.Set("radius", "5000")
	}

	var data placesResponse
	if err := c.get(ctx, textSearchPath, params, &data); err != nil {
		return "", err
	}

	if data.Status != "OK" || len(data.Results) == 0 {
		switch data.Status {
		case "ZERO_RESULTS":
			return fmt.Sprintf("I couldn't find any places matching '%s'.", query), nil
		case "REQUEST_DENIED":
			logger.WarnContext(ctx, "places request denied", "error", data.ErrorMessage)
			return "I'm having trouble connecting to the location service. Please try again later.", nil
		default:
			logger.WarnContext(ctx, "places search failed", "status", data.Status, "error", data.ErrorMessage)
			return "I couldn't find any places matching your search.", nil
		}
	}

	results := data.Results
	if len(results) > 5 {
		results = results[:5]
	}

	var response strings.Builder
	response.WriteString("Here's what I found:\n")
	for i, result := range results {
		writeResult(&response, i+1, result)
	}
	return response.String(), nil
}

// writeResult appends one numbered entry in the spoken-list format shared by
// the search handlers.
func writeResult(response *strings.Builder, position int, result place) {
	fmt.Fprintf(response, "%d. %s - %s. ", position, result.Name, result.address())
	if result.Rating > 0 {
		fmt.Fprintf(response, "Rated %v/5. ", result.Rating)
	}
	if result.OpeningHours != nil {
		state := "closed"
		if result.OpeningHours.OpenNow {
			state = "open"
		}
		fmt.Fprintf(response, "Currently %s. ", state)
	}
	response.WriteString("\n")
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create places request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach places service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("places service returned %s", res.Status)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode places response: %w", err)
	}
	return nil
}
