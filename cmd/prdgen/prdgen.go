/*
prdgen is a console utility validating grammar description and translating it to Go or JSON file.
Usage is

	prdgen ([-j] | [-p <name>] [-v <name>]) [-o <name>] <file>

-j flag instructs prdgen to output JSON dump of compiled grammar instead of Go source;

-o <name> defines output file name, default is the name of input file with .go or .json suffix;

-p <name> defines Go package name, default is directory name of output file;

-v <name> defines generated Go variable name of type *grammar.Grammar, default is the name of the first rule;

<file> defines grammar definition file parsable by langdef.Parse().

Grammar warnings are logged to stderr, errors abort generation.
*/
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ava12/prd"
	"github.com/ava12/prd/grammar"
	"github.com/ava12/prd/langdef"
	"github.com/ava12/prd/source"
)

func main() {
	var (
		generateJson bool
		inFileName   string
		opts         genOptions
	)

	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage is  prdgen ([-j] | [-p <name>] [-v <name>]) [-o <name>] <file>")
		flag.PrintDefaults()
		fmt.Fprintln(flag.CommandLine.Output(), "  <file>")
		fmt.Fprintln(flag.CommandLine.Output(), "\tgrammar definition file name")
	}

	flag.BoolVar(&generateJson, "j", false, "output JSON instead of Go")
	flag.StringVar(&opts.outFileName, "o", "", "output file name, default is the name of input file with .go or .json suffix")
	flag.StringVar(&opts.packageName, "p", "", "Go package name, default is dir name of output file")
	flag.StringVar(&opts.varName, "v", "", "Go variable name, default is the first rule name")
	flag.Parse()
	inFileName = flag.Arg(0)
	if inFileName == "" {
		flag.Usage()
		os.Exit(2)
	}

	if opts.outFileName == "" {
		ext := filepath.Ext(inFileName)
		opts.outFileName = inFileName[:len(inFileName)-len(ext)]
		if generateJson {
			opts.outFileName += ".json"
		} else {
			opts.outFileName += ".go"
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	config := langdef.Config{Warnings: func(w *prd.Error) {
		logger.Warn(w.Message, slog.Int("code", w.Code))
	}}

	var gr *grammar.Grammar
	text, e := os.ReadFile(inFileName)
	if e == nil {
		gr, e = config.Parse(source.New(inFileName, text))
	}
	var content []byte
	if e == nil {
		if generateJson {
			content, e = makeJson(gr)
		} else {
			content, e = makeGo(gr, filepath.Base(inFileName), string(text), opts)
		}
	}
	if e == nil {
		e = os.WriteFile(opts.outFileName, content, 0o666)
	}

	if e != nil {
		fmt.Println(e.Error())
		os.Exit(3)
	}
}
