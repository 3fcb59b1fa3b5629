package refine

import "errors"

// ErrNoInitialStates is returned if the oracle reports zero initial states
// (boundary case B3); there is nothing to seed pass 0's queue with.
var ErrNoInitialStates = errors.New("refine: oracle reported no initial states")
