/*
Package langdef converts textual grammar description to grammar.Grammar structure.

Description is line oriented. A physical line ending with a backslash is joined
with the next one. A logical line whose second item is ::= starts a new rule,
any other non-blank line continues the alternation list of the current rule.
Alternations are separated with |, # starts a comment running to the end of line.
The first rule is the default root.

	expr ::= term $become expr_tail
	expr_tail ::= @peek(0, "+") "+" term $become expr_tail
	    | @peek(0, "-") "-" term $become expr_tail
	    |
	term ::= r`[0-9]+`r | "(" expr ")"

Terms:

	name                 reference to a rule, may be used before its definition
	"text"               literal token, escapes are \\ \" \n \r \t
	r`pattern`r          token matched by a regex, the regex is also used by tokenizer
	R`pattern`r          token fully matched by a regex, tokenizer does not use it
	A`pattern`r          token prefix matched by a regex, tokenizer does not use it
	@eof                 succeeds at the end of token stream
	@auto X              same as @peek(0, X) $any, X is a literal or a regex
	@peek(N, "text")     token at relative offset N equals text
	@peekr(N, regex)     token at relative offset N matches regex
	@peekres(N, regex)   same as @peekr, but reserved words never match
	@guard(name)         calls the named guard function
	!hook(name)          calls the named hook function
	@recover regex       on failure skip tokens through the first one matching regex
	@recover_before regex  same as @recover, but the matching token is not skipped
	$become rule         continue parsing with another rule, keeping current node
	$become_as rule      same as $become, the node is renamed as well
	$rename rule         rename current node, the rule itself is not parsed
	$hoist               replace the last child with its children
	$hoist_unit          same as $hoist, only if the last child has a single child,
	                     any other last child is kept as is, not dropped
	$drop                remove the last child
	$drop_empty          remove the last child if it is not a leaf
	$any                 consume any single token
	$pruned              matched tokens of this alternation produce no leaves

@eof, @peek, @peekr, @peekres, and @guard are start predicates: they must be the
first term of an alternation. Alternations are tried in order, the first one
whose predicate holds (or that has no predicate) is committed to. An empty
alternation matches nothing and always succeeds.

Rules with names listed below are not rules but tokenizer settings. Their
alternations list words, literals, or regexes:

	__BRACKET_PAIRS ::= ( ) | [ ] | { }      opener and closer pairs
	__COMMENTS ::= // | --                    line comment starters
	__COMMENT_PAIRS ::= <!-- -->               comment delimiters
	__COMMENT_PAIRS_NESTED ::= (* *)          nesting comment delimiters
	__COMMENT_REGEXES ::= r`#[^\n]*`r         comments matched by regexes
	__RESERVED_WORDS ::= if else r`_[0-9]+`r  words rejected by @peekres

Compilation either succeeds or fails with the first error found. Unreachable
alternations and rules are reported as warnings through Config.Warnings.
*/
package langdef
