package persist

import "errors"

var (
	// ErrStorage wraps every failure of the underlying Storage.
	ErrStorage = errors.New("persist.storage_failed")

	// ErrCorruptRecord indicates the stored value could not be decoded.
	ErrCorruptRecord = errors.New("persist.corrupt_record")

	// ErrInvalidKey indicates a storage key that cannot be used safely.
	ErrInvalidKey = errors.New("persist.invalid_key")
)
