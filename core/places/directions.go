package places

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		Legs []struct {
			Distance struct {
				Text string `json:"text"`
			} `json:"distance"`
			Duration struct {
				Text string `json:"text"`
			} `json:"duration"`
			Steps []struct {
				HTMLInstructions string `json:"html_instructions"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

var (
	destinationPattern = regexp.MustCompile(`(directions to|how to get to|route to) (.+?)(?:$|\?)`)
	originPattern      = regexp.MustCompile(`(?i)from (.+?) to`)
	htmlTag            = regexp.MustCompile(`<[^<]+?>`)
)

// directions answers a route request with distance, duration and the first
// steps, trimmed for a voice response.
func (c *Client) directions(ctx context.Context, query string) (string, error) {
	destMatch := destinationPattern.FindStringSubmatch(query)
	if destMatch == nil {
		return "I need a destination to provide directions. Where would you like to go?", nil
	}
	destination := strings.TrimSpace(destMatch[2])

	origin := c.origin.Name
	if originMatch := originPattern.FindStringSubmatch(query); originMatch != nil {
		origin = strings.TrimSpace(originMatch[1])
	}

	mode := travelMode(query)

	params := url.Values{
		"key":         {c.apiKey},
		"origin":      {origin},
		"destination": {destination},
		"mode":        {mode},
		"language":    {"en"},
	}

	var data directionsResponse
	if err := c.get(ctx, directionsPath, params, &data); err != nil {
		return "", err
	}

	if data.Status != "OK" || len(data.Routes) == 0 || len(data.Routes[0].Legs) == 0 {
		if data.Status == "ZERO_RESULTS" {
			return fmt.Sprintf("I couldn't find directions from %s to %s by %s.", origin, destination, mode), nil
		}
		logger.WarnContext(ctx, "directions lookup failed", "status", data.Status, "error", data.ErrorMessage)
		return fmt.Sprintf("I couldn't find directions to %s.", destination), nil
	}

	leg := data.Routes[0].Legs[0]

	var response strings.Builder
	fmt.Fprintf(&response, "To get from %s to %s: ", origin, destination)
	fmt.Fprintf(&response, "It's about %s away and will take approximately %s by %s. ", leg.Distance.Text, leg.Duration.Text, mode)

	if len(leg.Steps) <= 3 {
		response.WriteString("Here are the directions: ")
		for i, step := range leg.Steps {
			fmt.Fprintf(&response, "%d. %s. ", i+1, htmlTag.ReplaceAllString(step.HTMLInstructions, ""))
		}
	} else {
		response.WriteString("Here's how to start: ")
		for i := 0; i < 2; i++ {
			fmt.Fprintf(&response, "%d. %s. ", i+1, htmlTag.ReplaceAllString(leg.Steps[i].HTMLInstructions, ""))
		}
		response.WriteString("Would you like the complete directions?")
	}

	return response.String(), nil
}

func travelMode(query string) string {
	switch {
	case containsAny(query, "walking", "on foot", "walk"):
		return "walking"
	case containsAny(query, "transit", "bus", "train", "public transport"):
		return "transit"
	case containsAny(query, "bicycle", "bike", "cycling"):
		return "bicycling"
	}
	return "driving"
}
