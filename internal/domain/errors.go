package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, item referencing itself as
// its container).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrFormat is returned by the backup codec when a document cannot be
// decoded: unparsable JSON, an unsupported version tag, or a trip missing
// its name. Handlers should map this to HTTP 400.
var ErrFormat = errors.New("invalid backup format")
