// Package batch runs documents through page parsing, table extraction and a
// single encode step. Documents are processed sequentially in input order and
// the first document failure aborts the whole run.
package batch
