package domain

import "errors"

var (
	// ErrOrderNotFound: the referenced order row does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrMenuItemNotFound: the referenced catalog row does not exist.
	ErrMenuItemNotFound = errors.New("menu item not found")
	// ErrStorageUnavailable: the storage engine could not be reached or the
	// statement failed in transport. The operation had no observable effect,
	// except for appends, where the caller must re-query to learn the truth.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrReconcileFailed: the id sequence could not be realigned. Non-fatal;
	// the delete that triggered it still stands.
	ErrReconcileFailed = errors.New("id sequence reconcile failed")
)
