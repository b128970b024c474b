package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// LexerName is the registered name of the bytecode listing lexer. Markdown
// code fences tagged with it are highlighted by glamour as well.
const LexerName = "jvm-bytecode"

// JVMBytecode tokenizes listings produced by the bytecode renderer.
var JVMBytecode = lexers.Register(chroma.MustNewLexer(
	&chroma.Config{
		Name:      LexerName,
		Aliases:   []string{"jvm", "bytecode"},
		Filenames: []string{"*.jbc"},
		MimeTypes: []string{"text/x-jvm-bytecode"},
	},
	bytecodeRules,
))

func bytecodeRules() chroma.Rules {
	return chroma.Rules{
		"root": {
			// pc column followed by the mnemonic
			{Pattern: `^(\s*)(\d+)(\s+)([a-z][a-z0-9_]*)`, Type: chroma.ByGroups(
				chroma.Whitespace, chroma.NameLabel, chroma.Whitespace, chroma.Keyword,
			)},
			{Pattern: `^(\s*)(case)(\s+)(-?\d+)(:)(\s*)(-?\d+)`, Type: chroma.ByGroups(
				chroma.Whitespace, chroma.Keyword, chroma.Whitespace, chroma.LiteralNumberInteger,
				chroma.Punctuation, chroma.Whitespace, chroma.NameLabel,
			)},
			{Pattern: `//.*$`, Type: chroma.CommentSingle},
			{Pattern: `(<)(Integer|Float|Long|Double|String|Class)\b`, Type: chroma.ByGroups(chroma.Punctuation, chroma.KeywordType)},
			{Pattern: `"`, Type: chroma.LiteralString, Mutator: chroma.Push("string")},
			{Pattern: `\b(default|nargs)\b`, Type: chroma.NameAttribute},
			{Pattern: `\b(public|private|protected|static|final|synchronized|bridge|varargs|native|abstract|strictfp|synthetic|class|interface|enum|extends|implements)\b`, Type: chroma.KeywordDeclaration},
			{Pattern: `\b(boolean|byte|char|short|int|long|float|double|void)\b`, Type: chroma.KeywordType},
			{Pattern: `-?(NaN|Infinity)\b`, Type: chroma.LiteralNumberFloat},
			{Pattern: `-?\d+\.\d+(E-?\d+)?`, Type: chroma.LiteralNumberFloat},
			{Pattern: `#\d+`, Type: chroma.NameLabel},
			{Pattern: `-?\d+`, Type: chroma.LiteralNumberInteger},
			{Pattern: `[A-Za-z_$<][\w$<>]*(\.[A-Za-z_$<][\w$<>]*)*`, Type: chroma.NameClass},
			{Pattern: `[()\[\]<>:,.@]`, Type: chroma.Punctuation},
			{Pattern: `\s+`, Type: chroma.Whitespace},
			{Pattern: `.`, Type: chroma.Text},
		},
		"string": {
			{Pattern: `\\u[0-9a-fA-F]{4}|\\.`, Type: chroma.LiteralStringEscape},
			{Pattern: `"`, Type: chroma.LiteralString, Mutator: chroma.Pop(1)},
			{Pattern: `[^"\\]+`, Type: chroma.LiteralString},
		},
	}
}
