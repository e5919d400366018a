// Package repository implements the booking store and the room and user
// directories on MySQL.  Sentinel errors returned to higher layers come
// from the model package; this file only classifies driver errors.
package repository

import (
    "errors"
    "strings"

    "github.com/go-sql-driver/mysql"
)

// MySQL server error numbers the store reacts to.
const (
    errLockWaitTimeout uint16 = 1205
    errDeadlock        uint16 = 1213
    errDuplicateEntry  uint16 = 1062
)

// isRetryable reports whether err is a transient lock failure after which
// the whole transaction may be replayed.
func isRetryable(err error) bool {
    var myErr *mysql.MySQLError
    if errors.As(err, &myErr) {
        return myErr.Number == errDeadlock || myErr.Number == errLockWaitTimeout
    }
    return false
}

// isDuplicate reports whether err is a unique-key violation.
func isDuplicate(err error) bool {
    var myErr *mysql.MySQLError
    return errors.As(err, &myErr) && myErr.Number == errDuplicateEntry
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere, with LIKE
// metacharacters in s taken literally.
func containsPattern(s string) string {
    return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
