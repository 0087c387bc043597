package types

// StatusRegistered is the status every lead starts with.
const StatusRegistered = "1-cadastrado"

// Lead represents a prospective customer captured by the intake form.
type Lead struct {
	// ID is the unique identifier of the lead.
	ID int64 `json:"id" db:"id"`

	// Name is the lead's name.
	Name string `json:"name" db:"name"`

	// Email is the lead's contact address.
	Email string `json:"email" db:"email"`

	// Phone is the lead's phone number, if given.
	Phone *string `json:"celular" db:"celular"`

	// Gender is the free-form gender value, if given.
	Gender *string `json:"genero" db:"genero"`

	// Status tracks where the lead is in the sales funnel.
	// It is StatusRegistered on creation and freely overwritable afterwards.
	Status *string `json:"situacao" db:"situacao"`
}

// LeadInput carries lead fields as received from a client.
// A nil field is stored as NULL; the store decides whether that is allowed.
type LeadInput struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"celular"`
	Gender *string `json:"genero"`
	Status *string `json:"situacao"`
}

// GenderCount is one row of the leads-by-gender report.
type GenderCount struct {
	Gender *string `json:"genero" db:"genero"`
	Count  int64   `json:"count" db:"count"`
}

// StatusCount is one row of the leads-by-status report.
type StatusCount struct {
	Status *string `json:"situacao" db:"situacao"`
	Count  int64   `json:"count" db:"count"`
}
