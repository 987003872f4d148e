package repositories

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a lookup or update matches no record
var ErrNotFound = errors.New("record not found")

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds an ILIKE pattern matching s anywhere, with wildcards in s taken literally
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
