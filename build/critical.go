package build

import (
	"fmt"
	"log"
	"strings"
)

// Critical should be called if a sanity check has failed, indicating a
// developer error. Critical panics in debug builds so the bug surfaces
// immediately; in standard builds it logs and continues, since crashing a
// wallet process over a recoverable invariant violation is worse than
// limping on with a logged warning.
func Critical(v ...interface{}) {
	msg := fmt.Sprintln(append([]interface{}{"Critical:"}, v...)...)
	if DEBUG {
		panic(msg)
	}
	log.Print(msg)
}

// Severe is Critical's non-fatal sibling: always logged, never panics, even
// in debug builds. Use it for invariant violations that are worth surfacing
// but that the caller has already decided to tolerate (e.g. a duplicate
// insert that is idempotent anyway).
func Severe(v ...interface{}) {
	log.Print(fmt.Sprintln(append([]interface{}{"Severe:"}, v...)...))
}

// JoinErrors joins a slice of errors into one error, separated by sep. Nil
// errors are skipped; a slice with no non-nil errors returns nil.
func JoinErrors(errs []error, sep string) error {
	var msgs []string
	for _, err := range errs {
		if err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(msgs, sep))
}
