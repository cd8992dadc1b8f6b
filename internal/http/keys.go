package http

import (
	"fmt"
	"regexp"
	"strconv"
)

var keySegment = regexp.MustCompile(`^(\w+)\((.*)\)$`)

// parseKeySegment splits "Customers(42)" into ("Customers", 42). ok is false
// when the segment has no "(...)" part; err is set when the key is not an integer.
func parseKeySegment(seg string) (set string, id int64, ok bool, err error) {
	m := keySegment.FindStringSubmatch(seg)
	if m == nil {
		return "", 0, false, nil
	}
	id, err = strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return m[1], 0, true, fmt.Errorf("key %q is not an integer", m[2])
	}
	return m[1], id, true, nil
}
