package rooms

import (
	"net/http"
	"sync"
	"testing"

	"slotboard/pkg/client"
	"slotboard/pkg/model"
	"slotboard/pkg/slot"
	"slotboard/test/integration/testutil"
)

// Full booking flow: offer slots, claim one, lose the race on a second claim,
// cancel, and reclaim the freed slot.
func TestBookingFlow(t *testing.T) {
	testutil.RequireIntegration(t)

	db := testutil.NewPostgresHelper(t)
	defer db.Close()
	db.CleanTables(t)

	rooms := client.NewRoomClient(testutil.ServerURL())
	participants := client.NewParticipantClient(testutil.ServerURL())

	resp, err := rooms.Create(model.Room{
		Title:     "Office hours",
		Kind:      model.RoomKindBooking,
		Dates:     []string{"2027-06-01"},
		Window:    slot.Window{Start: 9, End: 12},
		HostName:  "Dana Levi",
		HostSlots: []string{"2027-06-01T09:00", "2027-06-01T10:30"},
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

	resp, err = participants.Submit(room.ID, model.Participant{
		Name:  "Noa",
		Slots: []string{"2027-06-01T09:00"},
	})
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first claim status = %d, body %s", resp.StatusCode, resp.Body)
	}
	winner, err := participants.DecodeParticipant(resp)
	if err != nil {
		t.Fatalf("decode winner: %v", err)
	}

	// Second claim on the same slot loses with the distinct conflict code.
	resp, err = participants.Submit(room.ID, model.Participant{
		Name:  "Amir",
		Slots: []string{"2027-06-01T09:00"},
	})
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second claim status = %d, want %d, body %s", resp.StatusCode, http.StatusConflict, resp.Body)
	}

	// The other offered slot is still free.
	resp, err = participants.Submit(room.ID, model.Participant{
		Name:  "Amir",
		Slots: []string{"2027-06-01T10:30"},
	})
	if err != nil {
		t.Fatalf("claim other slot: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("claim other slot status = %d, body %s", resp.StatusCode, resp.Body)
	}

	// Cancelling the winner frees the contested slot for the next claimant.
	resp, err = participants.Cancel(room.ID, winner.ID)
	if err != nil {
		t.Fatalf("cancel winner: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("cancel status = %d, body %s", resp.StatusCode, resp.Body)
	}

	resp, err = participants.Submit(room.ID, model.Participant{
		Name:  "Tamar",
		Slots: []string{"2027-06-01T09:00"},
	})
	if err != nil {
		t.Fatalf("reclaim: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("reclaim status = %d, body %s", resp.StatusCode, resp.Body)
	}

	// Heat maps are an availability feature.
	resp, err = rooms.HeatMap(room.ID)
	if err != nil {
		t.Fatalf("heat map: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("heat map status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

// Many concurrent claims on one slot: exactly one wins.
func TestBookingRace(t *testing.T) {
	testutil.RequireIntegration(t)

	db := testutil.NewPostgresHelper(t)
	defer db.Close()
	db.CleanTables(t)

	rooms := client.NewRoomClient(testutil.ServerURL())
	participants := client.NewParticipantClient(testutil.ServerURL())

	resp, err := rooms.Create(model.Room{
		Title:     "Interview slot",
		Kind:      model.RoomKindBooking,
		Dates:     []string{"2027-06-01"},
		Window:    slot.Window{Start: 9, End: 10},
		HostName:  "Dana Levi",
		HostSlots: []string{"2027-06-01T09:00"},
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	room, err := rooms.DecodeRoom(resp)
	if err != nil {
		t.Fatalf("decode room: %v", err)
	}

	const claimants = 8
	statuses := make(chan int, claimants)
	var wg sync.WaitGroup
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := participants.Submit(room.ID, model.Participant{
				Name:  "Claimant",
				Slots: []string{"2027-06-01T09:00"},
			})
			if err != nil {
				t.Errorf("claim: %v", err)
				return
			}
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	var created, conflicts int
	for status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		default:
			t.Errorf("unexpected status %d", status)
		}
	}
	if created != 1 {
		t.Errorf("created = %d, want exactly 1", created)
	}
	if conflicts != claimants-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, claimants-1)
	}
	if count := db.CountParticipants(t, room.ID); count != 1 {
		t.Errorf("participant rows = %d, want 1", count)
	}
}
