package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

/**
 * Convert a struct to an ordered map keeping the field order of its JSON form
 * @param {interface{}} v - Struct (or pointer) with json tags
 * @returns {*orderedmap.OrderedMap} Keys in declaration order
 * @returns {error} Marshal errors
 */
func StructToOrderedMap(v interface{}) (*orderedmap.OrderedMap, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	om := orderedmap.New()
	if err := json.Unmarshal(data, om); err != nil {
		return nil, err
	}
	return om, nil
}

// PrintFormat prints rows as a table on stdout.
func PrintFormat(dataList []*orderedmap.OrderedMap) {
	FprintFormat(os.Stdout, dataList)
}

/**
 * Print rows as a table
 * @param {io.Writer} w - Output
 * @param {[]*orderedmap.OrderedMap} dataList - Rows; the keys of the first row become the header
 */
func FprintFormat(w io.Writer, dataList []*orderedmap.OrderedMap) {
	if len(dataList) == 0 {
		return
	}
	keys := dataList[0].Keys()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, 0, len(keys))
	for _, k := range keys {
		header = append(header, strings.ToUpper(k))
	}
	t.AppendHeader(header)

	for _, row := range dataList {
		r := make(table.Row, 0, len(keys))
		for _, k := range keys {
			v, _ := row.Get(k)
			r = append(r, formatCell(v))
		}
		t.AppendRow(r)
	}
	t.Render()
}

func formatCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		if x == "" {
			return "-"
		}
		return x
	case float64:
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintYAML writes v as YAML, going through its JSON form so json tags and marshalers apply.
func PrintYAML(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic interface{}
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(generic)
}
