package forms

import "tripdesk.io/internal/agency"

// CustomerForm is the flat editing shape for a customer.
type CustomerForm struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	Notes     string
}

// CustomerFormFrom flattens a customer record for editing.
func CustomerFormFrom(c agency.Customer) CustomerForm {
	return CustomerForm{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Notes:     c.Notes,
	}
}

// Validate checks required presence: name parts and email.
func (f CustomerForm) Validate() error {
	return requireAll(map[string]string{
		"first name": f.FirstName,
		"last name":  f.LastName,
		"email":      f.Email,
	})
}

// Document maps the form back onto a customer record.
func (f CustomerForm) Document() agency.Customer {
	return agency.Customer{
		ID:        f.ID,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Phone:     f.Phone,
		Address:   f.Address,
		Notes:     f.Notes,
	}
}

// LeadForm is the flat editing shape for a lead.
type LeadForm struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Source    string
	Status    string
	Notes     string
}

// LeadFormFrom flattens a lead record for editing.
func LeadFormFrom(l agency.Lead) LeadForm {
	return LeadForm{
		ID:        l.ID,
		FirstName: l.FirstName,
		LastName:  l.LastName,
		Email:     l.Email,
		Phone:     l.Phone,
		Source:    l.Source,
		Status:    l.Status,
		Notes:     l.Notes,
	}
}

// Validate checks required presence: name parts and email.
func (f LeadForm) Validate() error {
	return requireAll(map[string]string{
		"first name": f.FirstName,
		"last name":  f.LastName,
		"email":      f.Email,
	})
}

// Document maps the form back onto a lead record. A blank status defaults
// to new.
func (f LeadForm) Document() agency.Lead {
	status := f.Status
	if status == "" {
		status = agency.LeadNew
	}
	return agency.Lead{
		ID:        f.ID,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Phone:     f.Phone,
		Source:    f.Source,
		Status:    status,
		Notes:     f.Notes,
	}
}
