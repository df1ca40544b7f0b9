package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// fileCatalog is the on-disk (JSON or YAML) representation of a catalog.
type fileCatalog struct {
	Version       string     `json:"version" yaml:"version"`
	NoPrecautions string     `json:"no_precautions_message,omitempty" yaml:"no_precautions_message,omitempty"`
	Rules         []fileRule `json:"rules" yaml:"rules"`
}

type fileRule struct {
	Analyte     string           `json:"analyte" yaml:"analyte"`
	DisplayName string           `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Unit        string           `json:"unit,omitempty" yaml:"unit,omitempty"`
	Low         *float64         `json:"low,omitempty" yaml:"low,omitempty"`
	High        *float64         `json:"high,omitempty" yaml:"high,omitempty"`
	Aliases     []string         `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Synonyms    []string         `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`
	MatchUnits  []string         `json:"match_units,omitempty" yaml:"match_units,omitempty"`
	Messages    fileMessages     `json:"messages" yaml:"messages"`
	Precautions *filePrecautions `json:"precautions,omitempty" yaml:"precautions,omitempty"`
}

type fileMessages struct {
	Low    string `json:"low,omitempty" yaml:"low,omitempty"`
	Normal string `json:"normal" yaml:"normal"`
	High   string `json:"high,omitempty" yaml:"high,omitempty"`
}

type filePrecautions struct {
	Low  string `json:"low,omitempty" yaml:"low,omitempty"`
	High string `json:"high,omitempty" yaml:"high,omitempty"`
}

// LoadFile reads a catalog from a .json, .yaml or .yml file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".json":
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported catalog file extension: %q", filepath.Ext(path))
	}
}

// ParseYAML validates and decodes a YAML catalog document.
func ParseYAML(data []byte) (*Catalog, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml catalog: %w", err)
	}
	// Round-trip through JSON so the validator sees JSON-typed values.
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert yaml catalog: %w", err)
	}
	return ParseJSON(b)
}

// ParseJSON validates and decodes a JSON catalog document.
func ParseJSON(data []byte) (*Catalog, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}
	var fc fileCatalog
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return fc.build()
}

func validateDocument(data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("catalog.schema.json", strings.NewReader(catalogSchema)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("catalog.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal catalog: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("catalog does not match schema: %w", err)
	}
	return nil
}

func (fc fileCatalog) build() (*Catalog, error) {
	rules := make([]Rule, 0, len(fc.Rules))
	for _, fr := range fc.Rules {
		r := Rule{
			Analyte:     analyteID(fr.Analyte),
			DisplayName: fr.DisplayName,
			Unit:        fr.Unit,
			Low:         fr.Low,
			High:        fr.High,
			Aliases:     fr.Aliases,
			Synonyms:    fr.Synonyms,
			MatchUnits:  fr.MatchUnits,
			Messages: Messages{
				Low:    fr.Messages.Low,
				Normal: fr.Messages.Normal,
				High:   fr.Messages.High,
			},
		}
		if fr.Precautions != nil {
			r.Precautions = Precautions{Low: fr.Precautions.Low, High: fr.Precautions.High}
		}
		rules = append(rules, r)
	}
	return New(fc.Version, rules, WithNoPrecautionsMessage(fc.NoPrecautions))
}

// MarshalJSON writes the catalog in the file format accepted by ParseJSON.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	fc := fileCatalog{Version: c.version, NoPrecautions: c.noPrecautions}
	for _, r := range c.rules {
		fr := fileRule{
			Analyte:     string(r.Analyte),
			DisplayName: r.DisplayName,
			Unit:        r.Unit,
			Low:         r.Low,
			High:        r.High,
			Aliases:     r.Aliases,
			Synonyms:    r.Synonyms,
			MatchUnits:  r.MatchUnits,
			Messages:    fileMessages{Low: r.Messages.Low, Normal: r.Messages.Normal, High: r.Messages.High},
		}
		if r.Precautions != (Precautions{}) {
			fr.Precautions = &filePrecautions{Low: r.Precautions.Low, High: r.Precautions.High}
		}
		fc.Rules = append(fc.Rules, fr)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
