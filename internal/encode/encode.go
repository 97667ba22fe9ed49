// Package encode renders output records in the configured format. Each file
// produces one independently-decodable unit — multi-file runs are a sequence
// of units, not one aggregate document, so the writer can truncate on unit
// boundaries without corrupting the stream.
package encode

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/grahambrooks/astgen/internal/ast"
	"github.com/grahambrooks/astgen/internal/config"
)

// Encoder renders one record as one complete output unit, including the
// trailing unit separator.
type Encoder interface {
	Encode(rec *ast.Record) ([]byte, error)
}

// For returns the encoder for a config format name.
func For(format string) (Encoder, error) {
	switch format {
	case config.FormatJSON:
		return jsonEncoder{}, nil
	case config.FormatPrettyJSON:
		return prettyJSONEncoder{}, nil
	case config.FormatYAML:
		return yamlEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// jsonEncoder emits one compact JSON object per line.
type jsonEncoder struct{}

func (jsonEncoder) Encode(rec *ast.Record) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return append(data, '\n'), nil
}

// prettyJSONEncoder emits an indented JSON object; still one logical unit.
type prettyJSONEncoder struct{}

func (prettyJSONEncoder) Encode(rec *ast.Record) ([]byte, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return append(data, '\n'), nil
}

// yamlEncoder emits one YAML document per record. The leading document
// separator makes each unit self-delimiting in a multi-record stream.
type yamlEncoder struct{}

func (yamlEncoder) Encode(rec *ast.Record) ([]byte, error) {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	var buf bytes.Buffer
	buf.Grow(len(data) + 4)
	buf.WriteString("---\n")
	buf.Write(data)
	return buf.Bytes(), nil
}
