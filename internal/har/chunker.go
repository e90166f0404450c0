package har

import (
	json "github.com/goccy/go-json"
)

// parseChunked splits the entry list into fixed-size contiguous batches,
// parses each batch independently, and concatenates the partial tables in
// batch order so row order always matches capture order. Peak memory is
// bounded by one batch of raw entries plus the growing table, and each
// batch boundary is a natural progress checkpoint.
func (p *Parser) parseChunked(entries []json.RawMessage) (*Result, error) {
	size := p.batchSize()
	total := len(entries)
	table := newTable(total)
	var errs []*EntryError

	for start := 0; start < total; start += size {
		end := start + size
		if end > total {
			end = total
		}
		partial, batchErrs := parseBatch(entries[start:end], start)
		table.concat(partial)
		errs = append(errs, batchErrs...)
		if p.OnProgress != nil {
			p.OnProgress(end, total)
		}
	}
	return finalize(table, errs)
}
