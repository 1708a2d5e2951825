package scenario

import "errors"

var ErrBodyOutsideWorld = errors.New("body does not fit in the world")
