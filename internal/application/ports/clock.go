package ports

import "time"

// Clock fuente de tiempo del motor; inyectable para pruebas.
type Clock interface {
	Now() time.Time
}

// SystemClock reloj real en UTC.
type SystemClock struct{}

// Now hora actual en UTC.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
