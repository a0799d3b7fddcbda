package importer

import (
	"encoding/csv"
	"io"
	"strings"

	appErrors "buyers-backend/pkg/errors"
)

// ReadCSV parses an uploaded CSV into a File. Header names are trimmed
// and lowercased so "MI_Key" and "mi_key" mean the same column. Short
// records are padded with empty values rather than rejected; ragged
// exports are common.
func ReadCSV(r io.Reader) (*File, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, appErrors.NewValidation("file is empty")
	}
	if err != nil {
		return nil, appErrors.NewValidation("could not read file: " + err.Error())
	}

	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(col))
	}

	file := &File{Columns: columns}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, appErrors.NewValidation("could not read file: " + err.Error())
		}
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		file.Rows = append(file.Rows, row)
	}
	return file, nil
}
