package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"tripdesk.io/internal/agency"
)

func customerFixture() agency.Customer {
	return agency.Customer{FirstName: "Ana", LastName: "Gomez", Email: "ana@example.com"}
}

func TestUnwrapListProbesAllShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{name: "data array", body: `{"data":[{"id":"b1"}]}`},
		{name: "data keyed object", body: `{"data":{"bookings":[{"id":"b1"}]}}`},
		{name: "bare array", body: `[{"id":"b1"}]`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			items, err := unwrapList(json.RawMessage(tc.body), "bookings")
			if err != nil {
				t.Fatalf("unwrapList: %v", err)
			}
			var decoded []map[string]any
			if err := json.Unmarshal(items, &decoded); err != nil {
				t.Fatalf("decode items: %v", err)
			}
			if len(decoded) != 1 || decoded[0]["id"] != "b1" {
				t.Fatalf("items = %v", decoded)
			}
		})
	}
}

func TestUnwrapListRejectsShapelessBody(t *testing.T) {
	t.Parallel()

	if _, err := unwrapList(json.RawMessage(`{"data":{"other":{"x":1}}}`), "bookings"); err == nil {
		t.Fatalf("expected error for body without a collection")
	}
	if _, err := unwrapList(json.RawMessage(``), "bookings"); err == nil {
		t.Fatalf("expected error for empty body")
	}
}

func TestUnwrapObjectShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{name: "enveloped", body: `{"data":{"id":"c1"}}`},
		{name: "bare", body: `{"id":"c1"}`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var out struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(unwrapObject(json.RawMessage(tc.body)), &out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.ID != "c1" {
				t.Fatalf("ID = %q, want c1", out.ID)
			}
		})
	}
}

func TestListDecodesEachEnvelopeEndToEnd(t *testing.T) {
	t.Parallel()

	bodies := []string{
		`{"data":[{"id":"b1","tripDetails":{"destination":"Goa","travelDate":"2025-01-01"}}]}`,
		`{"data":{"bookings":[{"id":"b1","tripDetails":{"destination":"Goa","travelDate":"2025-01-01"}}]}}`,
		`[{"id":"b1","tripDetails":{"destination":"Goa","travelDate":"2025-01-01"}}]`,
	}

	for _, body := range bodies {
		body := body
		c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		bookings, err := c.ListBookings(context.Background(), Query{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(bookings) != 1 || bookings[0].TripDetails.Destination != "Goa" {
			t.Fatalf("bookings = %+v", bookings)
		}
	}
}
