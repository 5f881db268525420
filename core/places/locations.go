package places

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

var namedLocation = regexp.MustCompile(`(?:in|near|around|at) ([A-Za-z\s]+)(?:\s|$|\.|\?)`)

// genericLocationTerms never name a real place; they resolve to the
// configured origin.
var genericLocationTerms = []string{"the area", "the city", "here", "there", "the location", "this place"}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// extractLocation resolves a location named in the query, geocoding it when
// possible. It returns nil when the query names no location at all.
func (c *Client) extractLocation(ctx context.Context, query string) *Origin {
	if strings.Contains(query, "near me") {
		origin := c.origin
		return &origin
	}

	match := namedLocation.FindStringSubmatch(query)
	if match == nil {
		return nil
	}
	name := strings.TrimSpace(match[1])

	for _, term := range genericLocationTerms {
		if strings.EqualFold(name, term) {
			origin := c.origin
			return &origin
		}
	}

	params := url.Values{
		"key":     {c.apiKey},
		"address": {name},
	}

	var data geocodeResponse
	if err := c.get(ctx, geocodePath, params, &data); err != nil {
		logger.WarnContext(ctx, "geocoding failed", "location", name, "error", err)
	} else if data.Status == "OK" && len(data.Results) > 0 {
		location := data.Results[0].Geometry.Location
		return &Origin{Name: name, Lat: location.Lat, Lng: location.Lng}
	}

	// Keep the spoken name even when geocoding fails so responses still read
	// naturally.
	return &Origin{Name: name, Lat: c.origin.Lat, Lng: c.origin.Lng}
}
