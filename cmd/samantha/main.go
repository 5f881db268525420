package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	_ "github.com/mattn/go-sqlite3"

	assistant "github.com/imant686/samantha/core"
	"github.com/imant686/samantha/core/calendars/google"
	"github.com/imant686/samantha/core/dialogue"
	"github.com/imant686/samantha/core/llms/lmstudio"
	"github.com/imant686/samantha/core/places"
	"github.com/imant686/samantha/core/texttospeech/local"
	"github.com/imant686/samantha/core/weather"
	"github.com/imant686/samantha/internal/sqlite"
)

var textMode = flag.Bool("text", false, "chat in the terminal instead of using the microphone and speaker")

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt)
		<-ch
		cancel()
	}()

	cfg := configFromEnv()

	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unknown time zone:", err)
		os.Exit(1)
	}

	db, err := sql.Open(sqlite.DriverName, cfg.DatabaseFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to open database:", err)
		os.Exit(1)
	}
	defer db.Close()
	storage := sqlite.NewStorage(db)

	// The chat client carries conversation history; extraction gets its own
	// client so slot-filling prompts stay out of the chat transcript.
	chatLLM := lmstudio.NewClient(lmstudio.WithURL(cfg.LLMServerURL), lmstudio.WithModel(cfg.LLMModel))
	extractionLLM := lmstudio.NewClient(lmstudio.WithURL(cfg.LLMServerURL), lmstudio.WithModel(cfg.LLMModel))

	calendar, err := newCalendar(cfg, location)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to create calendar client:", err)
		os.Exit(1)
	}

	dialogueOpts := []dialogue.Option{
		dialogue.WithExtractor(extractionLLM),
		dialogue.WithCommitPipeline(dialogue.NewCommitPipeline(storage, calendarInserter(calendar), location)),
	}
	if calendar != nil {
		dialogueOpts = append(dialogueOpts,
			dialogue.WithConflictChecker(dialogue.NewConflictChecker(calendar, location)))
	}

	var weatherOpts []weather.ClientOption
	if cfg.HomeCity != "" {
		weatherOpts = append(weatherOpts, weather.WithHomeCity(cfg.HomeCity))
	}

	var speakerOpts []local.ClientOption
	if cfg.SpeakServiceURL != "" {
		speakerOpts = append(speakerOpts, local.WithBaseURL(cfg.SpeakServiceURL))
	}
	speaker := local.NewClient(speakerOpts...)

	assistantOpts := []assistant.Option{
		assistant.WithLLM(chatLLM),
		assistant.WithEventDialogue(dialogue.New(dialogueOpts...)),
		assistant.WithWeather(weather.NewClient(cfg.WeatherAPIKey, weatherOpts...)),
		assistant.WithPlaces(places.NewClient(cfg.MapsAPIKey)),
		assistant.WithConversationLog(storage),
	}
	if !*textMode {
		assistantOpts = append(assistantOpts, assistant.WithPresenter(speaker))
	}
	samantha := assistant.New(assistantOpts...)

	if *textMode {
		err = runChat(ctx, samantha)
	} else {
		err = runVoice(ctx, samantha, speaker)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCalendar(cfg config, location *time.Location) (*google.Client, error) {
	if cfg.GoogleCredentialsFile == "" || cfg.GoogleTokenFile == "" {
		return nil, nil
	}

	credentials, err := os.ReadFile(cfg.GoogleCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	token, err := os.ReadFile(cfg.GoogleTokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	opts := []google.ClientOption{google.WithLocation(location)}
	if cfg.GoogleCalendarID != "" {
		opts = append(opts, google.WithCalendarID(cfg.GoogleCalendarID))
	}
	return google.NewClient(credentials, token, opts...)
}

// calendarInserter keeps a missing calendar as a true nil interface so the
// commit pipeline skips syncing instead of calling through a nil pointer.
func calendarInserter(calendar *google.Client) dialogue.EventInserter {
	if calendar == nil {
		return nil
	}
	return calendar
}
