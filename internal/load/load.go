// Package load reads expression documents from a filesystem. JSON and YAML
// documents share the shape that gosigma.ToJSON produces.
package load

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/njchilds90/gosigma"
	"github.com/njchilds90/gosigma/internal/errwrap"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// File reads the expression at path. Files ending in .yaml or .yml are
// decoded as YAML, anything else as JSON.
func File(fs afero.Fs, path string) (gosigma.Expr, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't read %s", path)
	}
	var e gosigma.Expr
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		e, err = YAML(data)
	default:
		e, err = JSON(data)
	}
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't decode %s", path)
	}
	return e, nil
}

// JSON decodes one expression document.
func JSON(data []byte) (gosigma.Expr, error) {
	var m map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber() // keep large constants exact
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return gosigma.FromJSON(m)
}

// YAML decodes one expression document.
func YAML(data []byte) (gosigma.Expr, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	v, err := normalize(raw)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("document must be a mapping, got %T", v)
	}
	return gosigma.FromJSON(m)
}

// normalize turns the map[interface{}]interface{} values that yaml.v2 builds
// into the string keyed maps the JSON decoder would have built.
func normalize(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, val := range x {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("mapping key %v is not a string", k)
			}
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, val := range x {
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}
	return v, nil
}
