package logging

import (
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Configure switches logging to a rotating file at the given path. With an
// empty path logging stays on stderr.
func Configure(path string) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if path == "" {
		return
	}
	log.SetOutput(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   false,
	})
}
