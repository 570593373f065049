package relax

import "github.com/relaxui/relax/internal/errors"

// Sentinel errors, matched with errors.Is.
var (
	ErrInvalidArgument    = errors.ErrInvalidArgument
	ErrInvalidMountTarget = errors.ErrInvalidMountTarget
	ErrInvalidIndex       = errors.ErrInvalidIndex
	ErrUnknownNodeType    = errors.ErrUnknownNodeType
	ErrAlreadyMounted     = errors.ErrAlreadyMounted
	ErrNotMounted         = errors.ErrNotMounted
	ErrReservedMethodName = errors.ErrReservedMethodName
	ErrUnhandledEvent     = errors.ErrUnhandledEvent
	ErrReentrantUpdate    = errors.ErrReentrantUpdate
	ErrJobFailed          = errors.ErrJobFailed
	ErrConfigInvalid      = errors.ErrConfigInvalid
)
