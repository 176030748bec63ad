package repository

import "errors"

// ErrNotApplied signals that a conditional write matched a uniqueness or
// capacity guard and inserted nothing. Callers re-read to classify the
// conflict; the guard itself is what closes the check-then-write race.
var ErrNotApplied = errors.New("conditional write not applied")
