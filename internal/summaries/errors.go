package summaries

import "errors"

// ErrInvalidLevel is returned for a summary level outside beginner/moderate/expert.
var ErrInvalidLevel = errors.New("invalid summary level")
