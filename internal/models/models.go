// Package models holds the gorm-mapped records persisted by the service.
package models

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Donation{},
		&Request{},
		&NGO{},
		&Volunteer{},
		&FreeFoodListing{},
	}
}
