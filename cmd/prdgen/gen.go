package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/format"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ava12/prd/grammar"
)

type genOptions struct {
	outFileName, packageName, varName string
}

var identRe = regexp.MustCompile("^[A-Za-z_][A-Za-z_0-9]*$")

func makeJson(gr *grammar.Grammar) ([]byte, error) {
	return json.MarshalIndent(gr, "", "  ")
}

// makeGo generates Go source embedding grammar text, compiled on package initialization.
func makeGo(gr *grammar.Grammar, name, text string, opts genOptions) ([]byte, error) {
	packageName, varName := opts.packageName, opts.varName
	if packageName == "" {
		dir, e := filepath.Abs(opts.outFileName)
		if e != nil {
			return nil, e
		}
		packageName = filepath.Base(filepath.Dir(dir))
	}
	if varName == "" {
		varName = gr.Points[0].Name
	}

	if !identRe.MatchString(packageName) {
		return nil, fmt.Errorf("invalid package name: %s", packageName)
	}
	if !identRe.MatchString(varName) {
		return nil, fmt.Errorf("invalid variable name: %s", varName)
	}

	var buffer bytes.Buffer

	buffer.WriteString("// Code generated with prdgen. DO NOT EDIT.\n\n" +
		"package " + packageName + "\n\n" +
		"import \"github.com/ava12/prd/langdef\"\n\n")

	buffer.WriteString("// Rules:\n")
	for i, p := range gr.Points {
		buffer.WriteString(fmt.Sprintf("// %s(%d): %d alternation(s)", p.Name, i, len(p.Alternations)))
		if p.Recover != nil {
			buffer.WriteString(", recovers at " + p.Recover.Regex.Pattern())
		}
		buffer.WriteString("\n")
	}
	buffer.WriteString("\n")

	buffer.WriteString("var " + varName + " = langdef.MustParseString(" + fmt.Sprintf("%q", name) + ", " + quote(text) + ")\n")
	return format.Source(buffer.Bytes())
}

func quote(text string) string {
	if strings.Contains(text, "`") || strings.Contains(text, "\r") {
		return fmt.Sprintf("%q", text)
	}
	return "`" + text + "`"
}
