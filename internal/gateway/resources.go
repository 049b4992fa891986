package gateway

import (
	"context"
	"fmt"
	"net/url"

	"tripdesk.io/internal/agency"
)

// list fetches a collection page and probes the envelope in the documented
// fallback order.
func list[T any](ctx context.Context, c *Client, path, key string, q Query) ([]T, error) {
	raw, err := c.get(ctx, path, q.Values())
	if err != nil {
		return nil, err
	}
	items, err := unwrapList(raw, key)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := decode(items, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func getOne[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	raw, err := c.get(ctx, path, nil)
	if err != nil {
		return out, err
	}
	if err := decode(unwrapObject(raw), &out); err != nil {
		return out, err
	}
	return out, nil
}

func create[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var out T
	raw, err := c.send(ctx, "POST", path, body)
	if err != nil {
		return out, err
	}
	if err := decode(unwrapObject(raw), &out); err != nil {
		return out, err
	}
	return out, nil
}

func update[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var out T
	raw, err := c.send(ctx, "PUT", path, body)
	if err != nil {
		return out, err
	}
	if err := decode(unwrapObject(raw), &out); err != nil {
		return out, err
	}
	return out, nil
}

// Customers ---------------------------------------------------------------

func (c *Client) ListCustomers(ctx context.Context, q Query) ([]agency.Customer, error) {
	return list[agency.Customer](ctx, c, "/customers", "customers", q)
}

func (c *Client) GetCustomer(ctx context.Context, id string) (agency.Customer, error) {
	return getOne[agency.Customer](ctx, c, "/customers/"+url.PathEscape(id))
}

func (c *Client) CreateCustomer(ctx context.Context, customer agency.Customer) (agency.Customer, error) {
	return create[agency.Customer](ctx, c, "/customers", customer)
}

func (c *Client) UpdateCustomer(ctx context.Context, customer agency.Customer) (agency.Customer, error) {
	return update[agency.Customer](ctx, c, "/customers/"+url.PathEscape(customer.ID), customer)
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	_, err := c.send(ctx, "DELETE", "/customers/"+url.PathEscape(id), nil)
	return err
}

// Bookings ----------------------------------------------------------------

func (c *Client) ListBookings(ctx context.Context, q Query) ([]agency.Booking, error) {
	return list[agency.Booking](ctx, c, "/bookings", "bookings", q)
}

func (c *Client) GetBooking(ctx context.Context, id string) (agency.Booking, error) {
	return getOne[agency.Booking](ctx, c, "/bookings/"+url.PathEscape(id))
}

func (c *Client) CreateBooking(ctx context.Context, booking agency.Booking) (agency.Booking, error) {
	return create[agency.Booking](ctx, c, "/bookings", booking)
}

func (c *Client) UpdateBooking(ctx context.Context, booking agency.Booking) (agency.Booking, error) {
	return update[agency.Booking](ctx, c, "/bookings/"+url.PathEscape(booking.ID), booking)
}

// UpdateBookingStatus hits the dedicated status transition endpoint. Not
// every deployment has it; callers fall back to UpdateBookingStatusField.
func (c *Client) UpdateBookingStatus(ctx context.Context, id, status string) error {
	_, err := c.send(ctx, "PATCH", fmt.Sprintf("/bookings/%s/status", url.PathEscape(id)), map[string]string{"status": status})
	return err
}

// UpdateBookingStatusField is the generic-update fallback carrying just the
// status field.
func (c *Client) UpdateBookingStatusField(ctx context.Context, id, status string) error {
	_, err := c.send(ctx, "PUT", "/bookings/"+url.PathEscape(id), map[string]string{"status": status})
	return err
}

func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	_, err := c.send(ctx, "DELETE", "/bookings/"+url.PathEscape(id), nil)
	return err
}

// Itineraries -------------------------------------------------------------

func (c *Client) ListItineraries(ctx context.Context, q Query) ([]agency.Itinerary, error) {
	return list[agency.Itinerary](ctx, c, "/itineraries", "itineraries", q)
}

func (c *Client) CreateItinerary(ctx context.Context, itinerary agency.Itinerary) (agency.Itinerary, error) {
	return create[agency.Itinerary](ctx, c, "/itineraries", itinerary)
}

func (c *Client) UpdateItinerary(ctx context.Context, itinerary agency.Itinerary) (agency.Itinerary, error) {
	return update[agency.Itinerary](ctx, c, "/itineraries/"+url.PathEscape(itinerary.ID), itinerary)
}

func (c *Client) DeleteItinerary(ctx context.Context, id string) error {
	_, err := c.send(ctx, "DELETE", "/itineraries/"+url.PathEscape(id), nil)
	return err
}

// Leads -------------------------------------------------------------------

func (c *Client) ListLeads(ctx context.Context, q Query) ([]agency.Lead, error) {
	return list[agency.Lead](ctx, c, "/leads", "leads", q)
}

func (c *Client) CreateLead(ctx context.Context, lead agency.Lead) (agency.Lead, error) {
	return create[agency.Lead](ctx, c, "/leads", lead)
}

func (c *Client) UpdateLead(ctx context.Context, lead agency.Lead) (agency.Lead, error) {
	return update[agency.Lead](ctx, c, "/leads/"+url.PathEscape(lead.ID), lead)
}

// ConvertLead promotes a lead into a customer on the backend.
func (c *Client) ConvertLead(ctx context.Context, id string) (agency.Customer, error) {
	var out agency.Customer
	raw, err := c.send(ctx, "PATCH", fmt.Sprintf("/leads/%s/convert", url.PathEscape(id)), nil)
	if err != nil {
		return out, err
	}
	if err := decode(unwrapObject(raw), &out); err != nil {
		return out, err
	}
	return out, nil
}

func (c *Client) DeleteLead(ctx context.Context, id string) error {
	_, err := c.send(ctx, "DELETE", "/leads/"+url.PathEscape(id), nil)
	return err
}

// Payments ----------------------------------------------------------------

func (c *Client) ListPayments(ctx context.Context, q Query) ([]agency.Payment, error) {
	return list[agency.Payment](ctx, c, "/payments", "payments", q)
}

func (c *Client) CreatePayment(ctx context.Context, payment agency.Payment) (agency.Payment, error) {
	return create[agency.Payment](ctx, c, "/payments", payment)
}

func (c *Client) UpdatePayment(ctx context.Context, payment agency.Payment) (agency.Payment, error) {
	return update[agency.Payment](ctx, c, "/payments/"+url.PathEscape(payment.ID), payment)
}

func (c *Client) DeletePayment(ctx context.Context, id string) error {
	_, err := c.send(ctx, "DELETE", "/payments/"+url.PathEscape(id), nil)
	return err
}

// Commissions -------------------------------------------------------------

// ListCommissions queries the aggregate endpoint. Deployments without it
// answer 404; the console derives a degraded-mode sheet from bookings
// instead.
func (c *Client) ListCommissions(ctx context.Context, q Query) ([]agency.Commission, error) {
	return list[agency.Commission](ctx, c, "/commissions", "commissions", q)
}

// Agents ------------------------------------------------------------------

func (c *Client) ListAgents(ctx context.Context, q Query) ([]agency.Agent, error) {
	return list[agency.Agent](ctx, c, "/agents", "agents", q)
}

// ApproveAgent activates a pending registration.
func (c *Client) ApproveAgent(ctx context.Context, id string) error {
	_, err := c.send(ctx, "PATCH", fmt.Sprintf("/agents/%s/approve", url.PathEscape(id)), nil)
	return err
}

// RejectAgent declines a pending registration.
func (c *Client) RejectAgent(ctx context.Context, id string) error {
	_, err := c.send(ctx, "PATCH", fmt.Sprintf("/agents/%s/reject", url.PathEscape(id)), nil)
	return err
}

// UpdateAgent edits an agent profile (self-edit or admin edit).
func (c *Client) UpdateAgent(ctx context.Context, agent agency.Agent) (agency.Agent, error) {
	return update[agency.Agent](ctx, c, "/agents/"+url.PathEscape(agent.ID), agent)
}

// Audit logs --------------------------------------------------------------

func (c *Client) ListAuditLogs(ctx context.Context, q Query) ([]agency.AuditLog, error) {
	return list[agency.AuditLog](ctx, c, "/audit-logs", "auditLogs", q)
}
