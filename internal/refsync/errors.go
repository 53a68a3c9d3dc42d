package refsync

import "errors"

var (
	ErrCapabilityNotRegistered = errors.New("refsync: reference-sync capability not registered in workspace configuration")
	ErrRootManifestMissing     = errors.New("refsync: root manifest missing at workspace root")
)
