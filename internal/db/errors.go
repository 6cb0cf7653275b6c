package db

import "errors"

// ErrTenantRequired is returned by couple-scoped lookups called without a couple id.
var ErrTenantRequired = errors.New("couple id is required")

func requireTenant(coupleID uint) error {
	if coupleID == 0 {
		return ErrTenantRequired
	}
	return nil
}

var errForeignOccurrence = errors.New("occurrence belongs to another routine")
