package logger

import "log"

// Init configures the standard logger for all services.
func Init() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}
