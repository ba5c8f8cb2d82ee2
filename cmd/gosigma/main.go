// Command gosigma prints the closed-form polynomial of a summation document.
//
// Usage:
//
//	gosigma sum.json
//	gosigma --expr '{"type":"sum","index":"i","from":{"type":"const","value":"1"},"to":{"type":"param"},"body":{"type":"index","name":"i"}}'
//	gosigma --check 20 --latex squares.yaml
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/njchilds90/gosigma"
	"github.com/njchilds90/gosigma/internal/errwrap"
	"github.com/njchilds90/gosigma/internal/load"

	"github.com/alexflint/go-arg"
	"github.com/fatih/color"
	"github.com/sanity-io/litter"
	"github.com/spf13/afero"
)

// Args are what are used to build the CLI.
type Args struct {
	File string `arg:"positional" help:"expression document (.json, .yaml or .yml)"`

	Expr string `arg:"--expr" help:"inline JSON expression, instead of a file"`

	ASCII bool `arg:"--ascii" help:"render exponents as ^n"`

	LaTeX bool `arg:"--latex" help:"also print the LaTeX form"`

	Check int64 `arg:"--check" default:"-1" help:"verify the result at x = 0..N"`

	MaxDegree int `arg:"--max-degree" help:"refuse expressions whose degree estimate is larger"`

	Dump bool `arg:"--dump" help:"dump the decoded expression tree"`

	Debug bool `arg:"--debug" help:"log the sampling steps"`
}

// Description is shown at the top of --help.
func (Args) Description() string {
	return "gosigma rewrites a nested summation over x as an exact polynomial in x.\n"
}

func (obj *Args) expression(fs afero.Fs) (gosigma.Expr, error) {
	if obj.Expr != "" && obj.File != "" {
		return nil, fmt.Errorf("pass either a file or --expr, not both")
	}
	if obj.Expr != "" {
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(obj.Expr), &m); err != nil {
			return nil, errwrap.Wrapf(err, "invalid --expr")
		}
		return gosigma.FromJSON(m)
	}
	if obj.File == "" {
		return nil, fmt.Errorf("no expression given")
	}
	return load.File(fs, obj.File)
}

// Run simplifies the expression and prints the result.
func (obj *Args) Run(fs afero.Fs) error {
	e, err := obj.expression(fs)
	if err != nil {
		return err
	}
	if obj.Dump {
		fmt.Println(litter.Sdump(e))
	}

	s := &gosigma.Simplifier{
		MaxDegree: obj.MaxDegree,
		Debug:     obj.Debug,
		Logf: func(format string, v ...interface{}) {
			log.Printf(format, v...)
		},
	}
	p, err := s.Simplify(e)
	if err != nil {
		return err
	}

	out := p.ToUnicodeString()
	if obj.ASCII {
		out = p.ToASCIIString()
	}
	fmt.Printf("%s = %s\n", e, color.New(color.Bold).Sprint(out))
	if obj.LaTeX {
		fmt.Println(p.LaTeX())
	}

	if obj.Check < 0 {
		return nil
	}
	if err := gosigma.Check(e, p, 0, obj.Check); err != nil {
		for _, m := range errwrap.Errors(err) {
			color.Red("mismatch: %v", m)
		}
		return fmt.Errorf("check failed on x = 0..%d", obj.Check)
	}
	color.Green("check passed on x = 0..%d", obj.Check)
	return nil
}

// Main program that returns error.
func Main() error {
	args := Args{}
	parser, err := arg.NewParser(arg.Config{Program: "gosigma"}, &args)
	if err != nil {
		// programming error
		return err
	}
	err = parser.Parse(os.Args[1:])
	if err == arg.ErrHelp {
		parser.WriteHelp(os.Stdout)
		return nil
	}
	if err != nil {
		parser.WriteUsage(os.Stderr)
		return err
	}
	return args.Run(afero.NewOsFs())
}

func main() {
	if err := Main(); err != nil {
		fmt.Fprintf(os.Stderr, "gosigma: %v\n", err)
		os.Exit(1)
	}
}
