package quote_test

import (
	"testing"

	"github.com/opal-lang/cmdstream/quote"
	"github.com/stretchr/testify/require"
)

func TestQuoteEmpty(t *testing.T) {
	require.Equal(t, "''", quote.Quote(""))
}

func TestQuoteSafeUnquoted(t *testing.T) {
	for _, s := range []string{"hello", "a-b_c.d/e=f,g+h@i:j", "123"} {
		require.Equal(t, s, quote.Quote(s))
	}
}

func TestQuotePassthroughSingleQuoted(t *testing.T) {
	require.Equal(t, "'already quoted'", quote.Quote("'already quoted'"))
}

func TestQuoteDoubleRewrappedSingle(t *testing.T) {
	require.Equal(t, "'hello world'", quote.Quote(`"hello world"`))
}

func TestQuoteEscapesSingleQuotes(t *testing.T) {
	require.Equal(t, `'it'\''s'`, quote.Quote("it's"))
}

func TestQuoteArraySpaceJoined(t *testing.T) {
	require.Equal(t, "a b 'c d'", quote.QuoteArray([]string{"a", "b", "c d"}))
}

func TestRawBypassesQuoting(t *testing.T) {
	require.Equal(t, "$(date)", quote.Value(quote.Raw("$(date)")))
}

func TestBuildConcatenatesFragments(t *testing.T) {
	got := quote.Build("echo %s", "it's")
	require.Equal(t, `echo 'it'\''s'`, got)
}

func TestBuildWholeStringPassthrough(t *testing.T) {
	got := quote.Build("%s", "echo a | grep a")
	require.Equal(t, "echo a | grep a", got)
}

func TestBuildEscapedPercent(t *testing.T) {
	got := quote.Build("echo %%s %s", "x")
	require.Equal(t, "echo %s x", got)
}

func TestBuildMultipleArgsInOrder(t *testing.T) {
	got := quote.Build("cp %s %s", "a", "b")
	require.Equal(t, "cp a b", got)
}
