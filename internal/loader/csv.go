package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"

	"hrgraph/internal/mapping"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV decodes delimited text with a header line. Input that is not
// valid UTF-8 is read as EUC-KR (CP949), the usual encoding of spreadsheets
// exported by Korean Excel installs.
func ParseCSV(data []byte) (mapping.Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := korean.EUCKR.NewDecoder().Bytes(data)
		if err != nil {
			return mapping.Table{}, fmt.Errorf("failed to decode csv as EUC-KR: %w", err)
		}
		data = decoded
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return mapping.Table{}, fmt.Errorf("failed to parse csv: %w", err)
	}

	t := rowsToTable(records)
	if t.Len() == 0 {
		return t, ErrEmptyDataset
	}
	return t, nil
}
