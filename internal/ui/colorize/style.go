package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// StyleName is the registered name of the bytecode color scheme.
const StyleName = "bytecode-dark"

// BytecodeDark colors bytecode listings on a dark background.
var BytecodeDark = styles.Register(chroma.MustNewStyle(StyleName, chroma.StyleEntries{
	chroma.Text:       "#D4D4D4",
	chroma.Background: "bg:#1e1e1e",
	chroma.Comment:    "#6A9955",

	chroma.Keyword:            "#FFFFFF", // mnemonics and case
	chroma.KeywordDeclaration: "#569CD6",
	chroma.KeywordType:        "#4EC9B0",
	chroma.NameAttribute:      "#9CDCFE",
	chroma.NameClass:          "#7C9C9D",
	chroma.NameLabel:          "#858585", // pc column and branch targets

	chroma.LiteralNumber:        "#FF5F87",
	chroma.LiteralNumberInteger: "#FF5F87",
	chroma.LiteralNumberFloat:   "#FF5F87",

	chroma.LiteralString:       "#EACD53",
	chroma.LiteralStringEscape: "#D7BA7D",

	chroma.Punctuation: "#D4D4D4",
}))
