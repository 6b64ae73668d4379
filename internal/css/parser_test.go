// internal/css/parser_test.go
package css_test

import (
	"errors"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xantheum/reflow/internal/css"
)

func TestParseBasicRule(t *testing.T) {
	sheet, err := css.Parse(`h1, h2, h3 { margin: auto; color: #cc0000; }`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 1)

	rule := sheet.Rules[0]
	require.Len(t, rule.Selectors, 3)
	assert.Equal(t, "h1", rule.Selectors[0].TagName)
	assert.Equal(t, "h3", rule.Selectors[2].TagName)

	require.Len(t, rule.Declarations, 2)
	assert.Equal(t, "margin", rule.Declarations[0].Name)
	assert.True(t, rule.Declarations[0].Value.IsKeyword("auto"))
	assert.Equal(t, "color", rule.Declarations[1].Name)
	assert.Equal(t, css.Color{R: 0xcc, G: 0, B: 0, A: 255}, rule.Declarations[1].Value.Color)
}

func TestParseSelectorForms(t *testing.T) {
	sheet, err := css.Parse(`
		* { width: 1px; }
		div.note { width: 2px; }
		#answer { width: 3px; }
		.a.b { width: 4px; }
	`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 4)

	assert.Equal(t, "*", sheet.Rules[0].Selectors[0].TagName)

	sel := sheet.Rules[1].Selectors[0]
	assert.Equal(t, "div", sel.TagName)
	assert.Equal(t, []string{"note"}, sel.Classes)

	assert.Equal(t, "answer", sheet.Rules[2].Selectors[0].ID)
	assert.Equal(t, []string{"a", "b"}, sheet.Rules[3].Selectors[0].Classes)
}

func TestParseLengthValues(t *testing.T) {
	sheet, err := css.Parse(`div { width: 600.5px; }`)
	require.NoError(t, err)

	v := sheet.Rules[0].Declarations[0].Value
	assert.Equal(t, css.Length, v.Kind)
	assert.Equal(t, 600.5, v.ToPx())
	assert.Equal(t, css.UnitPx, v.Unit)
}

func TestParseOptionalTrailingSemicolon(t *testing.T) {
	sheet, err := css.Parse(`div { margin: auto }`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules[0].Declarations, 1)
}

func TestParseComments(t *testing.T) {
	sheet, err := css.Parse(`
		/* heading styles */
		h1 { /* inside a block */ margin: auto; }
	`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 1)
	require.Len(t, sheet.Rules[0].Declarations, 1)
}

func TestParseEmptyInput(t *testing.T) {
	sheet, err := css.Parse("   \n\t  ")
	require.NoError(t, err)
	assert.Empty(t, sheet.Rules)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		sentinel error
	}{
		{
			name:     "unknown unit",
			input:    `div { width: 10em; }`,
			sentinel: css.ErrUnknownUnit,
		},
		{
			name:     "unitless length",
			input:    `div { width: 10; }`,
			sentinel: css.ErrUnknownUnit,
		},
		{
			name:     "short hex color",
			input:    `div { color: #fff; }`,
			sentinel: css.ErrBadColor,
		},
		{
			name:     "overlong hex color",
			input:    `div { color: #00112233; }`,
			sentinel: css.ErrBadColor,
		},
		{
			name:     "non-hex digits in color",
			input:    `div { color: #zzzzzz; }`,
			sentinel: css.ErrBadColor,
		},
		{
			name:     "truncated rule body",
			input:    `div { margin: auto;`,
			sentinel: css.ErrTruncated,
		},
		{
			name:     "truncated selector list",
			input:    `div, p`,
			sentinel: css.ErrTruncated,
		},
		{
			name:     "unterminated comment",
			input:    `/* never closed`,
			sentinel: css.ErrTruncated,
		},
		{
			name:     "empty selector",
			input:    `{ margin: auto; }`,
			sentinel: css.ErrEmptySelector,
		},
		{
			name:     "missing colon",
			input:    `div { margin auto; }`,
			sentinel: css.ErrBadDeclaration,
		},
		{
			name:     "missing semicolon between declarations",
			input:    `div { margin: auto width: 10px; }`,
			sentinel: css.ErrBadDeclaration,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sheet, err := css.Parse(tc.input)
			require.Error(t, err)
			assert.Nil(t, sheet)
			assert.ErrorIs(t, err, tc.sentinel)

			var parseErr *css.ParseError
			require.True(t, errors.As(err, &parseErr), "error should be a *ParseError")
			assert.GreaterOrEqual(t, parseErr.Offset, 0)
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := css.Parse(`div { width: 10em; }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset")
}

// FuzzParse checks that arbitrary input never panics the parser: it
// either produces a stylesheet or a typed error.
func FuzzParse(f *testing.F) {
	f.Add([]byte(`div { width: 10px; }`))
	f.Add([]byte(`#a, .b, * { color: #aabbcc }`))
	f.Add([]byte(`/* comment */`))
	f.Add([]byte(`{`))

	f.Fuzz(func(t *testing.T, data []byte) {
		consumer := fuzz.NewConsumer(data)
		input, err := consumer.GetString()
		if err != nil {
			return
		}
		sheet, err := css.Parse(input)
		if err == nil && sheet == nil {
			t.Fatal("nil stylesheet without an error")
		}
	})
}
