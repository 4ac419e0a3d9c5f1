package prd_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/ava12/prd/langdef"
	"github.com/ava12/prd/lexer"
	"github.com/ava12/prd/parser"
	"github.com/ava12/prd/tree"
)

func Example() {
	input := `
foo = "hello"
bar = "world"
[sec]
baz = ""
[sec.subsec]
qux = "!"
`
	grammar := `
config ::= @eof | @peek(0, "[") section $become config | value $become config
section ::= "[" r` + "`[a-z]+(?:\\.[a-z]+)*`" + `r "]" !hook(section)
value ::= r` + "`[a-z]+`" + `r "=" r` + "`\"[^\"]*\"`" + `r !hook(value)
`
	configGrammar, e := langdef.ParseString("example grammar", grammar)
	if e != nil {
		fmt.Println(e)
		return
	}

	tokens, e := lexer.Tokenize(configGrammar, "input", input)
	if e != nil {
		fmt.Println(e)
		return
	}

	result := make(map[string]string)
	prefix := ""
	hooks := parser.Hooks{
		"section": func(pc *parser.Context, _ []lexer.Token, pos int, _ *[]tree.Node) (int, error) {
			prefix = pc.TokenText(pos-2) + "."
			return 0, nil
		},
		"value": func(pc *parser.Context, _ []lexer.Token, pos int, _ *[]tree.Node) (int, error) {
			result[prefix+pc.TokenText(pos-3)] = strings.Trim(pc.TokenText(pos-1), `"`)
			return 0, nil
		},
	}
	_, e = parser.Parse(context.Background(), configGrammar, "", tokens, nil, hooks)
	if e == nil {
		fmt.Println(result)
	} else {
		fmt.Println(e)
	}

	// Output:
	// map[bar:world foo:hello sec.baz: sec.subsec.qux:!]
}

func Example_shape() {
	g := langdef.MustParseString("parens", `S ::= @auto "(" S ")" | "x"`)
	tokens, _ := lexer.Tokenize(g, "input", "((x))")
	root, _ := parser.Parse(context.Background(), g, "S", tokens, nil, nil)
	fmt.Println(tree.Shape(root))
	fmt.Print(tree.Sprint(root, g.Strings))

	// Output:
	// +.+.+.-.-.-
	// S [5]
	//   "("
	//   S [3]
	//     "("
	//     S [1]
	//       "x"
	//     ")"
	//   ")"
}
