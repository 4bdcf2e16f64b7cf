// Package dataset implements Dataset (component G) and the slice/
// broadcast proxy operators (component H): a named map of data items
// sharing a coord table, a label table and a mask table, plus the
// cross-item alignment rules that binary operations enforce before
// delegating per-item work to package variable's transform driver.
package dataset
