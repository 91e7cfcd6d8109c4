package record

import "errors"

var (
	ErrUnknownField     = errors.New("unknown field")
	ErrNoIdentity       = errors.New("record has no identity")
	ErrDeleted          = errors.New("record has been deleted")
	ErrUnknownReference = errors.New("unknown reference target")
	ErrInvalidValue     = errors.New("invalid value")
	ErrIdentityConflict = errors.New("identity cannot change")
	ErrRowMissing       = errors.New("row no longer exists")
)
