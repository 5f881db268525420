package dialogue

import (
	"context"
	"strings"
	"testing"
)

func TestParseModelJSONRepairsMalformedReply(t *testing.T) {
	// Single quotes and a trailing comma, the typical small-model slips.
	reply := `{'name': 'Standup', 'date': '2025-03-21',}`

	var proposal draftProposal
	if err := parseModelJSON(reply, &proposal); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proposal.Name == nil || *proposal.Name != "Standup" {
		t.Errorf("expected name Standup, got %v", proposal.Name)
	}
	if proposal.Date == nil || *proposal.Date != "2025-03-21" {
		t.Errorf("expected date 2025-03-21, got %v", proposal.Date)
	}
}

func TestParseModelJSONStripsCodeFences(t *testing.T) {
	reply := "```json\n{\"name\": \"Standup\"}\n```"

	var proposal draftProposal
	if err := parseModelJSON(reply, &proposal); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proposal.Name == nil || *proposal.Name != "Standup" {
		t.Errorf("expected name Standup, got %v", proposal.Name)
	}
}

func TestParseModelJSONUnrepairableProse(t *testing.T) {
	var proposal draftProposal
	if err := parseModelJSON("I could not find any event details.", &proposal); err == nil {
		t.Fatal("expected an error for a prose reply")
	}
}

func TestExtractionRecoversRepairableReply(t *testing.T) {
	d, prompter := newTestDialogue(&recordingStore{})
	prompter.extractReply = "```json\n{'name': 'Standup', 'date': '2025-03-21', 'time': '15:00:00',}\n```"

	response, handled := d.ProcessUtterance(context.Background(), "add event")
	if !handled {
		t.Fatalf("expected event intent to be handled")
	}

	session := d.Session()
	if session.Draft.Name != "Standup" || session.Draft.Date != "2025-03-21" || session.Draft.Time != "15:00:00" {
		t.Errorf("expected repaired extraction to pre-fill the draft, got %+v", session.Draft)
	}
	if !strings.Contains(response, "located") {
		t.Errorf("expected location question after pre-fill, got %q", response)
	}
}
