package coordinator

import "errors"

var (
	errNothingToSave = errors.New("no thumbnail loaded")
	errNoSaver       = errors.New("no saver configured")
	errNoSettings    = errors.New("no settings configured")
)
