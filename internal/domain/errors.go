package domain

import "errors"

// ErrNotFound is returned when the requested resource does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing name, negative record count).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConnection means the contacts table could not be reached: transport
// failure, refused credentials, or the store reporting itself unavailable.
var ErrConnection = errors.New("table connection error")

// ErrQuery means the store rejected a read (malformed filter, unknown column).
var ErrQuery = errors.New("table query error")

// ErrInsert means the store rejected a write, e.g. a constraint violation.
var ErrInsert = errors.New("table insert error")

// ErrUploadInProgress is returned when an upload is requested while another
// run is still generating or uploading. The request has no side effects.
// Handlers should map this to HTTP 409 Conflict.
var ErrUploadInProgress = errors.New("upload already in progress")
