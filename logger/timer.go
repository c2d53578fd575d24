package logger

import "time"

type Timer struct {
	StartTime time.Time
	Name      string
	Console   *Console
}

// End logs the elapsed time rounded to milliseconds and returns it unrounded.
func (t *Timer) End() time.Duration {
	duration := time.Since(t.StartTime)
	t.Console.Log("%s completed in %v", t.Name, duration.Round(time.Millisecond))
	return duration
}
