package proximity

import "errors"

// ErrInvalidJudgment indicates model output that is not a JSON integer array.
var ErrInvalidJudgment = errors.New("invalid proximity judgment")
