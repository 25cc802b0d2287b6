package persist

import (
	"fmt"
	"log"
	"os"
)

const persistDir = "persist"

// Logger is a file-backed logger that wraps the standard library's log
// package, adding a startup/shutdown banner and a Critical method that
// panics after logging (mirroring build.Critical's debug-build behavior)
// so a fatal logged event cannot silently be missed.
type Logger struct {
	*log.Logger
	logFile *os.File
	verbose bool
}

// NewFileLogger returns a logger that logs to logFilename, naming name in
// its STARTUP line. If verbose is true, Debugln also writes to the file;
// otherwise Debugln is a no-op.
func NewFileLogger(name, logFilename string, verbose bool) (*Logger, error) {
	logFile, err := os.OpenFile(logFilename, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0600)
	if err != nil {
		return nil, err
	}
	logger := log.New(logFile, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile|log.LUTC)
	l := &Logger{
		Logger:  logger,
		logFile: logFile,
		verbose: verbose,
	}
	l.Println("STARTUP:", name, "logger started")
	return l, nil
}

// Debugln logs its arguments if the logger was created in verbose mode,
// and is a silent no-op otherwise.
func (l *Logger) Debugln(v ...interface{}) {
	if !l.verbose {
		return
	}
	l.Output(2, fmt.Sprintln(v...))
}

// Debugf logs its arguments if the logger was created in verbose mode,
// and is a silent no-op otherwise.
func (l *Logger) Debugf(format string, v ...interface{}) {
	if !l.verbose {
		return
	}
	l.Output(2, fmt.Sprintf(format, v...))
}

// Critical logs a message tagged CRITICAL and then panics, for invariant
// violations that must stop the process immediately.
func (l *Logger) Critical(v ...interface{}) {
	msg := fmt.Sprintln(append([]interface{}{"CRITICAL:"}, v...)...)
	l.Output(2, msg)
	panic(msg)
}

// Close writes a shutdown banner and closes the underlying file.
func (l *Logger) Close() error {
	l.Println("SHUTDOWN: Logger closing")
	return l.logFile.Close()
}
