package shell

import (
	"strings"
	"testing"

	"github.com/anmitsu/go-shlex"
	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	cases := map[string]struct {
		line     string
		expected []string
	}{
		"empty":            {"", nil},
		"no pipe":          {"ls -la /tmp", []string{"ls -la /tmp"}},
		"single character": {"w", []string{"w"}},
		"two stages":       {"printf %s hi | cat", []string{"printf %s hi ", " cat"}},
		"quoted pipe":      {`"a|b" | cat`, []string{`"a|b" `, " cat"}},
		"single quoted":    {`echo 'x | y'`, []string{`echo 'x | y'`}},
		"no spaces":        {"a|b|c", []string{"a", "b", "c"}},
		"double delimiter": {"a||b", []string{"a", "", "b"}},
		"leading pipe":     {"|a", []string{"", "a"}},
		"trailing pipe":    {"a|", []string{"a"}},
		"space stage":      {"a| |b", []string{"a", " ", "b"}},
		"unterminated":     {`echo "a | b`, []string{`echo "a | b`}},
		"mismatched close": {`echo 'a" | b`, []string{`echo 'a" `, " b"}},
		"reopened quote":   {`x "|" | y '|'`, []string{`x "|" `, ` y '|'`}},
		"multibyte":        {"echo héllo|wc", []string{"echo héllo", "wc"}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.expected, Split(tc.line))
		})
	}
}

func TestSplit_reconstructsLine(t *testing.T) {
	for _, line := range []string{
		"a | b | c",
		`"x|y" | 'p|q' |z`,
		"a||b",
		"|a",
	} {
		t.Run(line, func(t *testing.T) {
			assert.Equal(t, line, strings.Join(Split(line), string(PipeDelimiter)))
		})
	}
}

func TestTokenize(t *testing.T) {
	cases := map[string]struct {
		subcommand string
		expected   []string
	}{
		"empty":               {"", nil},
		"whitespace only":     {" \t  ", nil},
		"simple":              {"ls -la /tmp", []string{"ls", "-la", "/tmp"}},
		"quoted space":        {`echo "hello world"`, []string{"echo", "hello world"}},
		"single quoted":       {`echo 'hello  world'`, []string{"echo", "hello  world"}},
		"collapsed space":     {"  echo \t  hi  ", []string{"echo", "hi"}},
		"adjacent quotes":     {`echo "a"'b'c`, []string{"echo", "abc"}},
		"empty quotes":        {`echo ""`, []string{"echo"}},
		"mismatched close":    {`echo 'a" b`, []string{"echo", "a", "b"}},
		"unterminated":        {`echo "a  b`, []string{"echo", "a  b"}},
		"quoted tab":          {"printf \"\t\"", []string{"printf", "\t"}},
		"no escapes":          {`echo a\ b`, []string{"echo", `a\`, "b"}},
		"pipe inside quotes":  {`grep "a|b" `, []string{"grep", "a|b"}},
		"quoted program name": {`"cd" /tmp`, []string{"cd", "/tmp"}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.expected, Tokenize(tc.subcommand))
		})
	}
}

func TestTokenize_idempotentOnWords(t *testing.T) {
	for _, word := range []string{"ls", "/usr/bin/env", "--color=auto", "a=b"} {
		tokens := Tokenize(word)
		assert.Equal(t, []string{word}, tokens)
		assert.Equal(t, tokens, Tokenize(tokens[0]))
	}
}

// For inputs without escapes, empty quotes or mismatched quote kinds the
// tokenizer should agree with a POSIX word splitter.
func TestTokenize_agreesWithShlex(t *testing.T) {
	for _, line := range []string{
		"ls -la /tmp",
		`echo "hello world"`,
		`grep 'a b' file.txt`,
		`a"b c"d`,
		"  spaced   out  ",
	} {
		t.Run(line, func(t *testing.T) {
			expected, err := shlex.Split(line, true)
			assert.NoError(t, err)
			assert.Equal(t, expected, Tokenize(line))
		})
	}
}
