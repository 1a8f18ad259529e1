package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_WikiRules(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "space before comma", input: "Petroskoi , Karjal", expected: "Petroskoi, Karjal"},
		{name: "space before semicolon becomes comma", input: "a ; b", expected: "a, b"},
		{name: "comma semicolon", input: "a,;b", expected: "a;b"},
		{name: "semicolon comma", input: "a;,b", expected: "a;b"},
		{name: "repeated commas", input: "a,,,b", expected: "a,b"},
		{name: "repeated semicolons", input: "a;;b", expected: "a;b"},
		{name: "leading punctuation in parentheses", input: "(; 1917)", expected: "(1917)"},
		{name: "trailing punctuation in parentheses", input: "(1917 ,)", expected: "(1917)"},
		{name: "empty parentheses", input: "Vienanmeri ( , ) on", expected: "Vienanmeri on"},
		{name: "question mark parentheses", input: "Sana (?) on", expected: "Sana on"},
		{name: "carriage returns", input: "A.\r\nB.", expected: "A.\nB."},
		{name: "spaced hyphen", input: "1917 - 1920", expected: "1917 — 1920"},
		{name: "spaced en dash", input: "1917 – 1920", expected: "1917 — 1920"},
		{name: "unspaced hyphen kept", input: "Aunus-Karjala", expected: "Aunus-Karjala"},
		{name: "no-break space", input: "10\u00a0km", expected: "10 km"},
		{name: "direction marks", input: "a\u200eb\u200fc", expected: "abc"},
		{name: "byte order mark", input: "\ufeffTekst", expected: "Tekst"},
		{name: "extra spaces", input: "a    b", expected: "a b"},
		{name: "surrounding whitespace", input: "  \n a \n ", expected: "a"},
		{name: "paragraph breaks kept", input: "A.\n\nB.", expected: "A.\n\nB."},
		{name: "empty", input: "", expected: ""},
	}

	n := New(WikiRules())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"x ,() ,y",
		"a\u00a0- b",
		"(;)",
		"a ( ) ( ) b",
		" ; , ;; ,, (( )) ",
		"Text A , a Jegoris ( ) , 1917 .\r\n\r\nKirjalližuttu",
		"\u00a0 - \u00a0",
		"(( ,)) - –  - ",
		"Tekst\u200e ( ?  ) ,, on – se",
		"a " + strings.Repeat("(", 10) + strings.Repeat(")", 10) + " b",
		"(" + strings.Repeat("( , ", 20) + strings.Repeat(")", 21),
	}

	for _, set := range RuleSetNames() {
		rules, err := RuleSet(set)
		require.NoError(t, err)
		n := New(rules)

		for _, in := range inputs {
			once := n.Normalize(in)
			assert.Equal(t, once, n.Normalize(once), "set %s, input %q", set, in)
		}
	}
}

func TestNormalize_NFC(t *testing.T) {
	n := New(WikiRules())
	assert.Equal(t, "\u010doma", n.Normalize("c\u030coma"))
}

func TestNormalize_SentenceRules(t *testing.T) {
	n := New(SentenceRules())

	assert.Equal(t, "Minä olen kodvas.", n.Normalize("Minä\r\nolen Â\u00a0kodvas."))
	assert.Equal(t, "a b", n.Normalize("a\n\n b"))
}

func TestNormalize_ParagraphRules(t *testing.T) {
	n := New(ParagraphRules())

	assert.Equal(t, "Vepsän rahvahan kul'tur", n.Normalize("Vepsän\u00a0rahvahan  kul'tur"))
	assert.Equal(t, "a b", n.Normalize("aÂ\u00a0b"))
}

func TestNormalize_Function(t *testing.T) {
	assert.Equal(t, "a, b", Normalize("a , b", WikiRules()))
}

func TestNormalize_RepeatsUntilSettled(t *testing.T) {
	n := New(WikiRules())
	// The no-break space becomes a plain space after the dash rule has run.
	assert.Equal(t, "a — b", n.Normalize("a\u00a0- b"))

	// One level of empty parentheses goes per pass.
	deep := "a " + strings.Repeat("(", 10) + strings.Repeat(")", 10) + " b"
	assert.Equal(t, "a b", n.Normalize(deep))
}

func TestRuleSet(t *testing.T) {
	_, err := RuleSet("missing")
	assert.Error(t, err)

	rules, err := RuleSet(SetWiki)
	require.NoError(t, err)
	rules[0] = NewRule(`x`, "y")

	again, err := RuleSet(SetWiki)
	require.NoError(t, err)
	assert.NotEqual(t, rules[0].Pattern.String(), again[0].Pattern.String())

	assert.Equal(t, []string{SetParagraph, SetSentence, SetWiki}, RuleSetNames())
}

func TestNew_CopiesRules(t *testing.T) {
	rules := []Rule{NewRule(`a`, "b")}
	n := New(rules)
	rules[0] = NewRule(`a`, "c")

	assert.Equal(t, "b", n.Normalize("a"))
}
