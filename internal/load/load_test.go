package load_test

import (
	"os"
	"strings"
	"testing"

	"github.com/njchilds90/gosigma"
	"github.com/njchilds90/gosigma/internal/load"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const squaresJSON = `{
  "type": "sum",
  "index": "i",
  "from": {"type": "const", "value": 1},
  "to": {"type": "param"},
  "body": {"type": "mul", "left": {"type": "index", "name": "i"}, "right": {"type": "index", "name": "i"}}
}`

const squaresYAML = `
type: sum
index: i
from: {type: const, value: 1}
to: {type: param}
body:
  type: mul
  left: {type: index, name: i}
  right: {type: index, name: i}
`

func memFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		if err := afero.WriteFile(fs, name, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return fs
}

func TestFile(t *testing.T) {
	fs := memFs(t, map[string]string{
		"/docs/squares.json": squaresJSON,
		"/docs/squares.yaml": squaresYAML,
		"/docs/squares.YML":  squaresYAML,
	})
	var first gosigma.Expr
	for _, path := range []string{"/docs/squares.json", "/docs/squares.yaml", "/docs/squares.YML"} {
		e, err := load.File(fs, path)
		if err != nil {
			t.Fatalf("%s: %+v", path, err)
		}
		v, err := e.Evaluate(3)
		if err != nil || v.Int64() != 14 {
			t.Errorf("%s: want 14, got %v (%v)", path, v, err)
		}
		if first == nil {
			first = e
		} else if !first.Equal(e) {
			t.Errorf("%s decoded to %s, want %s", path, e, first)
		}
	}
}

func TestFile_Missing(t *testing.T) {
	_, err := load.File(afero.NewMemMapFs(), "/nope.json")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(err.Error(), "can't read /nope.json") {
		t.Errorf("unexpected error %v", err)
	}
	if !os.IsNotExist(errors.Cause(err)) {
		t.Errorf("want a not-exist cause, got %v", err)
	}
}

func TestFile_BadDocuments(t *testing.T) {
	fs := memFs(t, map[string]string{
		"/bad.json":    `{"type": "sum"`,
		"/bad.yaml":    "- just\n- a list\n",
		"/unbound.yml": "type: index\nname: k\n",
		"/keys.yaml":   "type: const\n1: 2\n",
	})
	for _, path := range []string{"/bad.json", "/bad.yaml", "/unbound.yml", "/keys.yaml"} {
		_, err := load.File(fs, path)
		if err == nil {
			t.Errorf("%s: expected an error", path)
			continue
		}
		if !strings.Contains(err.Error(), "can't decode "+path) {
			t.Errorf("%s: unexpected error %v", path, err)
		}
	}
}

func TestJSON_LargeConstant(t *testing.T) {
	e, err := load.JSON([]byte(`{"type": "const", "value": 123456789012345678901234567890}`))
	if err != nil {
		t.Fatalf("decode: %+v", err)
	}
	v, _ := e.Evaluate(0)
	if v.String() != "123456789012345678901234567890" {
		t.Errorf("constant lost precision: %s", v)
	}
}
