package main

import "os"

type config struct {
	DatabaseFile string
	TimeZone     string
	HomeCity     string

	LLMServerURL string
	LLMModel     string

	WeatherAPIKey string
	MapsAPIKey    string

	SpeakServiceURL string

	GoogleCredentialsFile string
	GoogleTokenFile       string
	GoogleCalendarID      string
}

func configFromEnv() config {
	return config{
		DatabaseFile: envOr("SAMANTHA_DB", "samantha.db"),
		TimeZone:     envOr("SAMANTHA_TIMEZONE", "Europe/London"),
		HomeCity:     os.Getenv("SAMANTHA_HOME_CITY"),

		LLMServerURL: os.Getenv("LMSTUDIO_URL"),
		LLMModel:     os.Getenv("LMSTUDIO_MODEL"),

		WeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		MapsAPIKey:    os.Getenv("GOOGLE_MAPS_API_KEY"),

		SpeakServiceURL: os.Getenv("SPEAK_SERVICE_URL"),

		GoogleCredentialsFile: os.Getenv("GOOGLE_CALENDAR_CREDENTIALS"),
		GoogleTokenFile:       os.Getenv("GOOGLE_CALENDAR_TOKEN"),
		GoogleCalendarID:      os.Getenv("GOOGLE_CALENDAR_ID"),
	}
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
