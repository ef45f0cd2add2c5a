package faker

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseExpression(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		kinds []segKind
		texts []string
	}{
		{"literal only", "plain", []segKind{segLiteral}, []string{"plain"}},
		{"alias", "#{Internet.emailAddress}", []segKind{segFunc}, []string{"email"}},
		{"mixed", "Mr. #{Name.lastName}!", []segKind{segLiteral, segFunc, segLiteral}, []string{"Mr. ", "lastname", "!"}},
		{"numerify", "#{numerify '###-##'}", []segKind{segNumerify}, []string{"###-##"}},
		{"regexify braces", "#{regexify '[a-z]{4}'}", []segKind{segRegexify}, []string{"[a-z]{4}"}},
		{"hash without brace", "#1 #{bothify '?#'}", []segKind{segLiteral, segBothify}, []string{"#1 ", "?#"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl, err := parseExpression(tt.expr)
			require.NoError(t, err)
			require.Len(t, tpl, len(tt.kinds))
			for i, seg := range tpl {
				assert.Equal(t, tt.kinds[i], seg.kind, "segment %d kind", i)
				assert.Equal(t, tt.texts[i], seg.text, "segment %d text", i)
			}
		})
	}
}

func TestParseExpression_Errors(t *testing.T) {
	for _, expr := range []string{
		"#{Name.firstName",
		"#{}",
		"#{Nope.nothing}",
		"#{numerify ###}",
		"#{Name.firstName 'x'}",
	} {
		_, err := parseExpression(expr)
		assert.Error(t, err, expr)
	}
}

func TestParseLocale(t *testing.T) {
	for _, in := range []string{"en-US", "fr_FR", "ja", "pt-BR"} {
		_, err := ParseLocale(in)
		assert.NoError(t, err, in)
	}
	for _, in := range []string{"", "!!", "en-US-@@"} {
		_, err := ParseLocale(in)
		assert.Error(t, err, in)
	}
}

func TestGofakeit_EmailExpression(t *testing.T) {
	g, err := NewGofakeit(0).Create("en-US")
	require.NoError(t, err)

	v, err := g.Expression("#{Internet.emailAddress}")
	require.NoError(t, err)
	assert.Contains(t, v, "@")
}

func TestGofakeit_Numerify(t *testing.T) {
	g, err := NewGofakeit(7).Create("en-US")
	require.NoError(t, err)

	re := regexp.MustCompile(`^ID-\d{4}$`)
	for i := 0; i < 20; i++ {
		v, err := g.Expression("ID-#{numerify '####'}")
		require.NoError(t, err)
		assert.Regexp(t, re, v)
	}
}

func TestGofakeit_SeedIsDeterministicPerLocale(t *testing.T) {
	a, err := NewGofakeit(42).Create("fr-FR")
	require.NoError(t, err)
	b, err := NewGofakeit(42).Create("fr_FR")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		va, err := a.Expression("#{Name.firstName} #{numerify '######'}")
		require.NoError(t, err)
		vb, err := b.Expression("#{Name.firstName} #{numerify '######'}")
		require.NoError(t, err)
		assert.Equal(t, va, vb)
	}
}

func TestGofakeit_Errors(t *testing.T) {
	_, err := NewGofakeit(0).Create("!!")
	var ge *GenerationError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "!!", ge.Locale)

	g, err := NewGofakeit(0).Create("en")
	require.NoError(t, err)
	_, err = g.Expression("#{Unknown.thing}")
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "#{Unknown.thing}", ge.Expression)
	assert.True(t, strings.Contains(err.Error(), "unknown expression"))
}

func TestExpressions_Sorted(t *testing.T) {
	names := Expressions()
	require.NotEmpty(t, names)
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestGofakeit_MalformedRegexIsRejected(t *testing.T) {
	g, err := NewGofakeit(0).Create("en-US")
	require.NoError(t, err)

	for _, expr := range []string{
		"#{regexify '[a-'}",
		"#{regexify '(?P<x'}",
		"id-#{regexify 'a**'}",
	} {
		var ge *GenerationError
		require.ErrorAs(t, ValidateExpression(expr), &ge, expr)
		assert.Equal(t, expr, ge.Expression)

		v, err := g.Expression(expr)
		require.ErrorAs(t, err, &ge, expr)
		assert.Empty(t, v)
	}

	v, err := g.Expression("#{regexify '[a-c]{3}'}")
	require.NoError(t, err)
	assert.Regexp(t, `^[a-c]{3}$`, v)
}

func TestGofakeit_EveryListedExpressionGenerates(t *testing.T) {
	g, err := NewGofakeit(3).Create("en-US")
	require.NoError(t, err)

	for _, name := range Expressions() {
		expr := "#{" + name + "}"
		require.NoError(t, ValidateExpression(expr), expr)
		v, err := g.Expression(expr)
		require.NoError(t, err, expr)
		assert.NotEmpty(t, v, expr)
	}
}

func TestGofakeit_FunctionParameters(t *testing.T) {
	for _, expr := range []string{
		"#{number:1,10}",
		"#{number:5}",
		"#{email}",
		"#{Number.randomNumber}",
	} {
		assert.NoError(t, ValidateExpression(expr), expr)
	}
	for _, expr := range []string{
		"#{number:abc}",
		"#{number:5,1}",
		"#{number:1,2,3}",
		"#{email:1,2,3}",
		"#{nosuchfunc}",
	} {
		var ge *GenerationError
		assert.ErrorAs(t, ValidateExpression(expr), &ge, expr)
	}

	g, err := NewGofakeit(0).Create("en")
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		v, err := g.Expression("#{number:1,10}")
		require.NoError(t, err)
		n, err := strconv.Atoi(v)
		require.NoError(t, err)
		assert.True(t, n >= 1 && n <= 10, v)
	}
}

func TestGofakeit_WarnsForNonEnglishLocale(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c := NewGofakeit(0).WithLogger(zap.New(core))

	for _, loc := range []string{"en-US", "en_GB", "en"} {
		_, err := c.Create(loc)
		require.NoError(t, err)
	}
	assert.Zero(t, logs.Len())

	_, err := c.Create("fr-FR")
	require.NoError(t, err)
	_, err = c.Create("ja")
	require.NoError(t, err)

	entries := logs.TakeAll()
	require.Len(t, entries, 2)
	assert.Equal(t, "fr-FR", entries[0].ContextMap()["locale"])
	assert.Equal(t, "fr", entries[0].ContextMap()["language"])
	assert.Equal(t, "ja", entries[1].ContextMap()["language"])
}
