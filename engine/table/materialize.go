package table

// Materialize maps each data row of block to a record keyed by the header.
// Short rows leave the trailing keys unset; cells beyond the header are dropped.
// Duplicate header cells overwrite earlier values for the same key.
func Materialize(block Block) []*Record {
	if len(block.Rows) == 0 {
		return nil
	}
	records := make([]*Record, 0, len(block.Rows))
	for _, row := range block.Rows {
		rec := NewRecord(len(block.Header))
		for i, key := range block.Header {
			if i < len(row) {
				rec.Set(key, row[i])
				continue
			}
			rec.SetUnset(key)
		}
		records = append(records, rec)
	}
	return records
}

// Extract runs Segment and Materialize over the lines of one page.
func Extract(lines []string) ResultSet {
	var out ResultSet
	for _, block := range Segment(lines) {
		out = append(out, Materialize(block)...)
	}
	return out
}
