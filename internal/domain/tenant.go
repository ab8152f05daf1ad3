package domain

import "github.com/google/uuid"

// Tenant is the minimal read-only view this service needs of a customer
// record: does it exist and is it allowed to make requests.
type Tenant struct {
	ID     uuid.UUID
	Active bool
}
