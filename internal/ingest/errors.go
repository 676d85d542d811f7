package ingest

import "fmt"

// InputError rejects an upload before any processing happens (missing file,
// unrecognized extension). The HTTP layer maps it to a 400.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string {
	return e.Msg
}

// DuplicateError rejects a batch because at least one row's business key is
// already stored, naming the file that first carried it.
type DuplicateError struct {
	FileName string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("Duplicate data found (previously uploaded in file: %s)", e.FileName)
}
