package rooms

import (
	"net/http"
	"testing"

	"slotboard/pkg/client"
	"slotboard/pkg/model"
	"slotboard/pkg/slot"
	"slotboard/test/integration/testutil"
)

// Full availability flow: create a poll, collect two overlapping selections,
// read the heat map, cancel one participant, delete the room.
func TestAvailabilityFlow(t *testing.T) {
	testutil.RequireIntegration(t)

	db := testutil.NewPostgresHelper(t)
	defer db.Close()
	db.CleanTables(t)

	rooms := client.NewRoomClient(testutil.ServerURL())
	participants := client.NewParticipantClient(testutil.ServerURL())

	resp, err := rooms.Create(model.Room{
		Title:  "Team offsite",
		Kind:   model.RoomKindAvailability,
		Dates:  []string{"2027-06-01", "2027-06-02"},
		Window: slot.Window{Start: 9, End: 11},
		DateWindows: map[string]slot.Window{
			"2027-06-02": {Start: 14, End: 16},
		},
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create room status = %d, body %s", resp.StatusCode, resp.Body)
	}
	room, err := rooms.DecodeRoom(resp)
	if err != nil {
		t.Fatalf("decode room: %v", err)
	}
	if room.ID == "" {
		t.Fatal("created room has no id")
	}

	// First participant overlaps the second on one slot.
	resp, err = participants.Submit(room.ID, model.Participant{
		Name:  "Noa",
		Slots: []string{"2027-06-01T09:00", "2027-06-01T09:30"},
	})
	if err != nil {
		t.Fatalf("submit first participant: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status = %d, body %s", resp.StatusCode, resp.Body)
	}
	first, err := participants.DecodeParticipant(resp)
	if err != nil {
		t.Fatalf("decode participant: %v", err)
	}

	resp, err = participants.Submit(room.ID, model.Participant{
		Name:  "Amir",
		Slots: []string{"2027-06-01T09:30", "2027-06-02T14:00"},
	})
	if err != nil {
		t.Fatalf("submit second participant: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status = %d, body %s", resp.StatusCode, resp.Body)
	}

	// A selection outside the override window must be rejected.
	resp, err = participants.Submit(room.ID, model.Participant{
		Name:  "Out of range",
		Slots: []string{"2027-06-02T09:00"},
	})
	if err != nil {
		t.Fatalf("submit out-of-range participant: %v", err)
	}
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("out-of-range submit status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}

	resp, err = rooms.HeatMap(room.ID)
	if err != nil {
		t.Fatalf("heat map: %v", err)
	}
	result, err := rooms.DecodeHeatMap(resp)
	if err != nil {
		t.Fatalf("decode heat map: %v", err)
	}
	if result.Participants != 2 {
		t.Errorf("participants = %d, want 2", result.Participants)
	}
	if result.Max != 2 {
		t.Errorf("max = %d, want 2", result.Max)
	}
	if got := result.Counts[slot.Key("2027-06-01T09:30")]; got != 2 {
		t.Errorf("count(09:30) = %d, want 2", got)
	}
	if got := result.Counts[slot.Key("2027-06-02T14:00")]; got != 1 {
		t.Errorf("count(14:00) = %d, want 1", got)
	}

	// Cancel the first participant and confirm the heat map follows.
	resp, err = participants.Cancel(room.ID, first.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("cancel status = %d, body %s", resp.StatusCode, resp.Body)
	}

	resp, err = rooms.HeatMap(room.ID)
	if err != nil {
		t.Fatalf("heat map after cancel: %v", err)
	}
	result, err = rooms.DecodeHeatMap(resp)
	if err != nil {
		t.Fatalf("decode heat map: %v", err)
	}
	if got := result.Counts[slot.Key("2027-06-01T09:30")]; got != 1 {
		t.Errorf("count(09:30) after cancel = %d, want 1", got)
	}

	// Delete cascades to the remaining participant.
	resp, err = rooms.Delete(room.ID)
	if err != nil {
		t.Fatalf("delete room: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, body %s", resp.StatusCode, resp.Body)
	}
	if count := db.CountParticipants(t, room.ID); count != 0 {
		t.Errorf("participants after delete = %d, want 0", count)
	}

	resp, err = rooms.Get(room.ID)
	if err != nil {
		t.Fatalf("get deleted room: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get deleted room status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}
