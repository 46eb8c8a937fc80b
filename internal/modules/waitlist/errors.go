package waitlist

import "errors"

var (
	ErrNotFound           = errors.New("waitlist entry not found")
	ErrForbidden          = errors.New("waitlist entry belongs to another member")
	ErrMemberBlocked      = errors.New("member cannot join waitlists")
	ErrClassNotOpen       = errors.New("class is not open for waitlisting")
	ErrClassNotFull       = errors.New("class still has seats, book directly")
	ErrWaitlistNotAllowed = errors.New("class does not allow a waitlist")
	ErrAlreadyWaiting     = errors.New("member is already on this waitlist")
	ErrAlreadyBooked      = errors.New("member already holds a reservation for this class")
	ErrInvalidState       = errors.New("waitlist entry state does not allow this transition")
)
