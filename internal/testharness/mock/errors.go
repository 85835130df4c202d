package mock

import "errors"

// ErrBus is a canned bus failure for tests.
var ErrBus = errors.New("mock: bus error")
