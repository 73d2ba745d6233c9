package services

import "strings"

// patch collects the columns of a partial update in the order they were set.
type patch struct {
	cols []string
	args []interface{}
}

func (p *patch) set(col string, value interface{}) {
	p.cols = append(p.cols, col)
	p.args = append(p.args, value)
}

// setString adds col when the caller supplied a value. A supplied empty
// string is kept and clears the column.
func (p *patch) setString(col string, value *string) {
	if value != nil {
		p.set(col, *value)
	}
}

func (p *patch) empty() bool {
	return len(p.cols) == 0
}

// update renders "UPDATE table SET a = ?, b = ? WHERE where" and its arguments.
func (p *patch) update(table, where string, whereArgs ...interface{}) (string, []interface{}) {
	assignments := make([]string, len(p.cols))
	for i, col := range p.cols {
		assignments[i] = col + " = ?"
	}

	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(table)
	b.WriteString(" SET ")
	b.WriteString(strings.Join(assignments, ", "))
	b.WriteString(" WHERE ")
	b.WriteString(where)

	args := make([]interface{}, 0, len(p.args)+len(whereArgs))
	args = append(args, p.args...)
	args = append(args, whereArgs...)
	return b.String(), args
}
