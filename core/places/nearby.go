package places

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// searchRadii are tried smallest first until a radius returns results.
var searchRadii = []int{2000, 5000, 10000, 20000}

type typePattern struct {
	pattern   string
	placeType string
}

// typePatterns map spoken phrases to Places API types. Earlier entries win,
// so compound phrases sit above the generic words they contain.
var typePatterns = []typePattern{
	{"restaurant", "restaurant"},
	{"restaurants", "restaurant"},
	{"dining", "restaurant"},
	{"diner", "restaurant"},
	{"café", "cafe"},
	{"cafe", "cafe"},
	{"coffee", "cafe"},
	{"coffee shop", "cafe"},
	{"gas station", "gas_station"},
	{"gas", "gas_station"},
	{"petrol station", "gas_station"},
	{"petrol", "gas_station"},
	{"fuel", "gas_station"},
	{"grocery store", "grocery_store"},
	{"grocery", "grocery_store"},
	{"supermarket", "grocery_store"},
	{"food store", "grocery_store"},
	{"markets", "grocery_store"},
	{"pharmacy", "pharmacy"},
	{"chemist", "pharmacy"},
	{"drugstore", "pharmacy"},
	{"hospital", "hospital"},
	{"medical center", "hospital"},
	{"emergency room", "hospital"},
	{"atm", "atm"},
	{"cash machine", "atm"},
	{"bank", "bank"},
	{"hotel", "lodging"},
	{"motel", "lodging"},
	{"lodging", "lodging"},
	{"inn", "lodging"},
	{"accommodation", "lodging"},
	{"school", "school"},
	{"university", "university"},
	{"college", "university"},
	{"park", "park"},
	{"playground", "park"},
	{"garden", "park"},
	{"parking", "parking"},
	{"car park", "parking"},
	{"post office", "post_office"},
	{"postal", "post_office"},
	{"cinema", "movie_theater"},
	{"theater", "movie_theater"},
	{"movie", "movie_theater"},
	{"films", "movie_theater"},
	{"mall", "shopping_mall"},
	{"shopping center", "shopping_mall"},
	{"shopping centre", "shopping_mall"},
	{"shopping", "shopping_mall"},
	{"book store", "book_store"},
	{"bookstore", "book_store"},
	{"store", "store"},
	{"shop", "store"},
	{"retail", "store"},
	{"library", "library"},
	{"museum", "museum"},
	{"gallery", "museum"},
	{"exhibition", "museum"},
	{"bar", "bar"},
	{"pub", "bar"},
	{"tavern", "bar"},
	{"night club", "night_club"},
	{"nightclub", "night_club"},
	{"club", "night_club"},
	{"disco", "night_club"},
}

var knownPlaceTypes = func() map[string]struct{} {
	known := make(map[string]struct{}, len(typePatterns))
	for _, entry := range typePatterns {
		known[entry.placeType] = struct{}{}
	}
	return known
}()

var nearbyType = regexp.MustCompile(`(nearest|closest|nearby)\s+([a-z\s]+)`)

// nearby answers "nearest X" questions, widening the search radius until
// something comes back and falling back to a text search when nothing does.
func (c *Client) nearby(ctx context.Context, query string) (string, error) {
	placeType := extractPlaceType(query)

	origin := c.origin
	if location := c.extractLocation(ctx, query); location != nil {
		origin = *location
	}

	params := url.Values{
		"key":      {c.apiKey},
		"location": {fmt.Sprintf("%v,%v", origin.Lat, origin.Lng)},
		"language": {"en"},
	}
	if _, known := knownPlaceTypes[placeType]; known {
		params.Set("type", placeType)
		// The grocery_store type alone surfaces too many unrelated places.
		if placeType == "grocery_store" {
			params.Set("keyword", "supermarket grocery")
		}
	} else if placeType != "" {
		params.Set("keyword", placeType)
	}

	var results []place
	for _, radius := range searchRadii {
		params.Set("radius", strconv.Itoa(radius))

		var data placesResponse
		if err := c.get(ctx, nearbyPath, params, &data); err != nil {
			logger.WarnContext(ctx, "nearby search failed", "radius", radius, "error", err)
			continue
		}
		if data.Status == "OK" && len(data.Results) > 0 {
			results = data.Results
			break
		}
		if data.Status == "INVALID_REQUEST" {
			results = c.textSearchFallback(ctx, placeType, origin.Name)
			if len(results) > 0 {
				break
			}
		}
	}

	if len(results) == 0 && placeType != "" {
		results = c.textSearchFallback(ctx, placeType, origin.Name)
	}
	if len(results) == 0 {
		typeStr := placeType
		if typeStr == "" {
			typeStr = "places"
		}
		return fmt.Sprintf("I couldn't find any %s nearby %s.", typeStr, origin.Name), nil
	}

	if placeType == "grocery_store" {
		results = filterGroceryResults(results)
	}
	if len(results) > 3 {
		results = results[:3]
	}

	var response strings.Builder
	response.WriteString("Here are the results: ")
	response.WriteString("\n")
	for i, result := range results {
		writeResult(&response, i+1, result)
	}
	return response.String(), nil
}

// extractPlaceType resolves the kind of place being asked for, preferring the
// known type table and falling back to whatever follows "nearest".
func extractPlaceType(query string) string {
	for _, entry := range typePatterns {
		if strings.Contains(query, entry.pattern) {
			return entry.placeType
		}
	}

	match := nearbyType.FindStringSubmatch(query)
	if match == nil {
		return ""
	}
	extracted := strings.TrimSpace(match[2])
	for _, entry := range typePatterns {
		if strings.Contains(extracted, entry.pattern) {
			return entry.placeType
		}
	}
	return extracted
}

func (c *Client) textSearchFallback(ctx context.Context, placeType, locationName string) []place {
	params := url.Values{
		"key":      {c.apiKey},
		"query":    {fmt.Sprintf("%s near %s", placeType, locationName)},
		"language": {"en"},
	}

	var data placesResponse
	if err := c.get(ctx, textSearchPath, params, &data); err != nil {
		logger.WarnContext(ctx, "text search fallback failed", "error", err)
		return nil
	}
	if data.Status != "OK" {
		return nil
	}
	return data.Results
}

// filterGroceryResults drops lodging that the grocery_store type keeps
// returning and moves obviously food-related places to the front.
func filterGroceryResults(results []place) []place {
	var filtered []place
	for _, result := range results {
		name := strings.ToLower(result.Name)

		if containsAny(name, "hotel", "apartment", "accommodation") {
			continue
		}
		if containsAny(name, "grocery", "supermarket", "food", "market", "store") {
			filtered = append([]place{result}, filtered...)
		} else {
			filtered = append(filtered, result)
		}
	}
	if len(filtered) == 0 {
		return results
	}
	return filtered
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
