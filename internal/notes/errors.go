package notes

import "errors"

// Failure kinds returned by the service. Handlers map these onto the HTTP
// error contract; the service never returns a raw internal failure for a
// path a caller has to branch on.
var (
	ErrMissingFile    = errors.New("no file provided")
	ErrMissingSubject = errors.New("no subject provided")
	ErrInvalidSubject = errors.New("invalid subject")
	ErrInvalidType    = errors.New("invalid file type")
	ErrProcessing     = errors.New("failed to process image")
	ErrStorage        = errors.New("failed to store file")
	ErrPersistence    = errors.New("failed to record note")
	ErrNotFound       = errors.New("note not found")
	ErrFileMissing    = errors.New("note file missing from storage")
)
