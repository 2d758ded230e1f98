package patternlang

import "github.com/alecthomas/participle/v2"

var parser = participle.MustBuild[Script](
	participle.Lexer(patternLexer),
	participle.Elide("Whitespace", "LineComment"),
	participle.UseLookahead(8),
	participle.CaseInsensitive("Ident"),
)

// Parse parses a pattern-language query and returns a kgraph.Query ready to
// hand to a Compiler.
func Parse(text string) (*Query, error) {
	script, err := parser.ParseString("", text)
	if err != nil {
		return nil, err
	}

	return build(script)
}
