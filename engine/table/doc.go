// Package table infers tables from plain text lines.
//
// A line is a table row when splitting it on runs of two or more whitespace
// characters yields at least two cells. Consecutive table rows form a Block whose
// first row is the header; every following row becomes a Record keyed by the
// header cells. Lines with a single cell are prose and close the current block.
package table
