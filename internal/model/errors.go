package model

import "errors"

// Sentinel error kinds per the engine's error handling policy: compositor
// code treats missing optional fields as "no effect" and only escalates on
// these conditions.
var (
	ErrConfigMissing    = errors.New("halo: config missing (patch, scene, beat metadata, or fixture definition)")
	ErrInvalidOutputKind = errors.New("halo: output kind does not match requested render path")
	ErrDecode           = errors.New("halo: malformed project or render-mode payload")
	ErrInvalidArgument  = errors.New("halo: invalid argument")
	ErrSinkError        = errors.New("halo: sink transport failure")
	ErrLockPoisoned     = errors.New("halo: project guard poisoned")
)
