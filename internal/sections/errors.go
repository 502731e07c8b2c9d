package sections

import "errors"

var (
	ErrUnknownSectionType = errors.New("unknown section type")
	ErrIndexOutOfRange    = errors.New("item index out of range")
	ErrNotListSection     = errors.New("section has no item list")
	ErrSectionNotFound    = errors.New("section not found")
	ErrReservedKey        = errors.New("sectionOrder is not a section")
)
