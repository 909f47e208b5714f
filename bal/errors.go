package bal

import "errors"

var (
	// ErrOutOfOrderChange is returned when an append supplies a transaction
	// index not strictly greater than the field's last recorded index. This
	// signals a producer bug (transactions processed out of order or a field
	// double-recorded); the change is rejected rather than re-sorted.
	ErrOutOfOrderChange = errors.New("bal: out-of-order change")

	// ErrDuplicateAccount is returned when two account bundles share an
	// address during access list construction.
	ErrDuplicateAccount = errors.New("bal: duplicate account")

	// ErrDuplicateCodeChange is returned when an account records a second
	// code change within one block.
	ErrDuplicateCodeChange = errors.New("bal: duplicate code change")

	// ErrFinalized is returned when a builder is used after Finalize.
	ErrFinalized = errors.New("bal: builder already finalized")

	// ErrLimitExceeded is returned by Validate when a structural limit
	// is breached.
	ErrLimitExceeded = errors.New("bal: limit exceeded")
)
