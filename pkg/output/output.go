// Package output writes reports in the formats offered by the CLI
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrNoMatch       = errors.New("selection matched nothing")
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatYAML, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Write renders rep in format f. decimals is used by the table format only.
func Write(w io.Writer, rep *model.Report, f Format, decimals int32) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable:
		return writeTable(w, rep, decimals)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Select evaluates the JSONPath expression against the JSON form of rep.
// A single match is returned as is, multiple matches as list.
func Select(rep *model.Report, expr string) (any, error) {
	path, err := jp.ParseString(expr)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(rep)
	if err != nil {
		return nil, err
	}
	obj, err := oj.Parse(data)
	if err != nil {
		return nil, err
	}
	res := path.Get(obj)
	switch len(res) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, expr)
	case 1:
		return res[0], nil
	default:
		return res, nil
	}
}

// WriteSelection writes the result of Select as indented JSON
func WriteSelection(w io.Writer, v any) error {
	_, err := fmt.Fprintln(w, oj.JSON(v, &oj.Options{Indent: 2, Sort: true}))
	return err
}
