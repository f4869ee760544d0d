package catalog

import "errors"

// ErrCatalogMissing is returned when no catalog has been written yet.
var ErrCatalogMissing = errors.New("catalog not found, run indexing first")

// ErrCorruptCatalog is returned when the catalog header or a row is malformed.
var ErrCorruptCatalog = errors.New("catalog is corrupt")
