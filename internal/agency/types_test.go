package agency

import (
	"encoding/json"
	"testing"
)

func TestRefDecodesBothShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		raw      string
		wantID   string
		wantName string
	}{
		{name: "bare id", raw: `"cust-1"`, wantID: "cust-1"},
		{name: "embedded document", raw: `{"id":"cust-2","name":"Acme Travel"}`, wantID: "cust-2", wantName: "Acme Travel"},
		{name: "legacy underscore id", raw: `{"_id":"cust-3","firstName":"Ana","lastName":"Gomez"}`, wantID: "cust-3", wantName: "Ana Gomez"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var ref Ref
			if err := json.Unmarshal([]byte(tc.raw), &ref); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if ref.ID != tc.wantID {
				t.Fatalf("ID = %q, want %q", ref.ID, tc.wantID)
			}
			if ref.Name != tc.wantName {
				t.Fatalf("Name = %q, want %q", ref.Name, tc.wantName)
			}
		})
	}
}

func TestRefMarshalsAsID(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Ref{ID: "cust-1", Name: "ignored"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"cust-1"` {
		t.Fatalf("marshal = %s, want %q", data, "cust-1")
	}
}

func TestBookingDecodesLegacyFlatFields(t *testing.T) {
	t.Parallel()

	raw := `{"_id":"b1","customer":"c1","destination":"Goa","travel_date":"2025-01-01","status":"confirmed","amount":1200}`
	var b Booking
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b.ID != "b1" {
		t.Fatalf("ID = %q, want b1", b.ID)
	}
	if b.TripDetails.Destination != "Goa" {
		t.Fatalf("Destination = %q, want Goa", b.TripDetails.Destination)
	}
	if b.TripDetails.TravelDate != "2025-01-01" {
		t.Fatalf("TravelDate = %q, want 2025-01-01", b.TripDetails.TravelDate)
	}
}

func TestBookingPrefersNestedTripDetails(t *testing.T) {
	t.Parallel()

	raw := `{"id":"b2","tripDetails":{"destination":"Paris","travelDate":"2025-03-10"},"destination":"stale"}`
	var b Booking
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b.TripDetails.Destination != "Paris" {
		t.Fatalf("Destination = %q, want Paris", b.TripDetails.Destination)
	}
}

func TestPermissionSetDefaults(t *testing.T) {
	t.Parallel()

	var unloaded PermissionSet
	if unloaded.Allows(PermBookingsView) {
		t.Fatalf("nil set must deny")
	}

	ps := PermissionSet{PermBookingsView: true, PermBookingsDelete: false}
	if !ps.Allows(PermBookingsView) {
		t.Fatalf("granted key must allow")
	}
	if ps.Allows(PermBookingsDelete) {
		t.Fatalf("explicit false must deny")
	}
	if ps.Allows("reports.export") {
		t.Fatalf("unknown key must deny")
	}
}
