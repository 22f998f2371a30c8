package generator

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const indentUnit = "    "

// doc accumulates indented lines.
type doc struct {
	buf bytes.Buffer
}

func (d *doc) line(depth int, format string, args ...any) {
	d.buf.WriteString(strings.Repeat(indentUnit, depth))
	fmt.Fprintf(&d.buf, format, args...)
	d.buf.WriteByte('\n')
}

func (d *doc) blank() {
	d.buf.WriteByte('\n')
}

func (d *doc) bytes() []byte {
	return d.buf.Bytes()
}

// quote renders s as a double-quoted DSL string.
func quote(s string) string {
	return strconv.Quote(s)
}

// propertyList renders ` [ a="1", b="2" ]`, keys sorted, or "" when empty.
func propertyList(props map[string]string) string {
	if len(props) == 0 {
		return ""
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + quote(props[k])
	}
	return " [ " + strings.Join(parts, ", ") + " ]"
}

// groupList renders ` (A, B)` or "".
func groupList(groups []string) string {
	if len(groups) == 0 {
		return ""
	}
	return " (" + strings.Join(groups, ", ") + ")"
}

// tagList renders ` ["A", "B"]` or "".
func tagList(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	quoted := make([]string, len(tags))
	for i, t := range tags {
		quoted[i] = quote(t)
	}
	return " [" + strings.Join(quoted, ", ") + "]"
}
