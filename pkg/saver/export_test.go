package saver

import "time"

// SetClock overrides the time source used for file names.
func (s *Saver) SetClock(now func() time.Time) { s.now = now }
