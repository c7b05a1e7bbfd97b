package usecase

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// recordsToCsv one row per record under sorted headers, nested objects become dotted columns
func recordsToCsv(records []map[string]interface{}) (*bytes.Buffer, error) {
	headers := columnsOf(records)

	csvBuffer := &bytes.Buffer{}
	csvWriter := csv.NewWriter(csvBuffer)
	if err := csvWriter.Write(headers); err != nil {
		return nil, err
	}

	row := make([]string, len(headers))
	for _, record := range records {
		if err := writeCsvRow(record, headers, row, csvWriter); err != nil {
			return nil, err
		}
	}
	csvWriter.Flush()
	return csvBuffer, csvWriter.Error()
}

// columnsOf the union of the flattened keys of records, sorted
func columnsOf(records []map[string]interface{}) []string {
	headersMap := make(map[string]struct{})
	for _, record := range records {
		for _, header := range extractHeaders(record) {
			headersMap[header] = struct{}{}
		}
	}
	headers := make([]string, 0, len(headersMap))
	for header := range headersMap {
		headers = append(headers, header)
	}
	sort.Strings(headers)
	return headers
}

func extractHeaders(record map[string]interface{}) []string {
	headers := make([]string, 0, len(record))
	for key, value := range record {
		switch v := value.(type) {
		case map[string]interface{}:
			for _, subHeader := range extractHeaders(v) {
				headers = append(headers, fmt.Sprintf("%s.%s", key, subHeader))
			}
		default:
			headers = append(headers, key)
		}
	}
	return headers
}

func writeCsvRow(record map[string]interface{}, headers []string, row []string, csvWriter *csv.Writer) error {
	for i, header := range headers {
		row[i] = cellText(getValue(record, strings.Split(header, ".")))
	}
	return csvWriter.Write(row)
}

// getValue nil for a missing key, when a dotted path crosses a scalar or stops on an object
func getValue(record map[string]interface{}, parts []string) interface{} {
	value, ok := record[parts[0]]
	if !ok {
		return nil
	}
	if len(parts) == 1 {
		if _, nested := value.(map[string]interface{}); nested {
			return nil
		}
		return value
	}
	subObject, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}
	return getValue(subObject, parts[1:])
}

// cellText text rendering of a decoded JSON value, null is empty
func cellText(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		text, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(text)
	}
}

// toRecords generic JSON view of stored entries, numbers are kept as json.Number
func toRecords[T any](entries []T) ([]map[string]interface{}, error) {
	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	records := make([]map[string]interface{}, 0, len(entries))
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err = decoder.Decode(&records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []map[string]interface{}{}
	}
	return records, nil
}

// flatten a record keyed by the dotted column names
func flatten(record map[string]interface{}, columns []string) map[string]interface{} {
	flat := make(map[string]interface{}, len(columns))
	for _, column := range columns {
		flat[column] = getValue(record, strings.Split(column, "."))
	}
	return flat
}
