package database

import (
	"strconv"
	"strings"
)

// Rebind rewrites ? placeholders to the positional style the driver expects.
// Repositories write queries once with ? and rebind at construction time;
// SQLite takes them as-is, PostgreSQL needs $1..$n.
func Rebind(driver Driver, query string) string {
	if driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			b.WriteByte(query[i])
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}
