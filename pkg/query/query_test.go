package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vango-dev/docroutes/pkg/routetest"
)

func TestRun(t *testing.T) {
	table := routetest.Docusaurus()

	tests := []struct {
		name  string
		expr  string
		count int
		first any
	}{
		{"top-level paths", "$[*].path", 14, "/__docusaurus/debug"},
		{"exact top-level entries", "$[?(@.exact == true)].path", 12, "/__docusaurus/debug"},
		{"docs sidebar", "$[11].routes[0].routes[0].routes[*].sidebar", 6, "tutorialSidebar"},
		{"every hash", "$..hash", 21, nil},
		{"no such key", "$[*].title", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := Run(table, tt.expr)
			require.NoError(t, err)
			assert.Len(t, results, tt.count)
			if tt.first != nil {
				require.NotEmpty(t, results)
				assert.Equal(t, tt.first, results[0])
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile("")
	assert.ErrorIs(t, err, ErrInvalidExpression)

	_, err = Compile("$[")
	assert.ErrorIs(t, err, ErrInvalidExpression)
}

func TestQueryReusesDocument(t *testing.T) {
	q, err := Compile("$[-1].path")
	require.NoError(t, err)
	assert.Equal(t, "$[-1].path", q.String())

	doc, err := Document(routetest.Docusaurus())
	require.NoError(t, err)
	assert.Equal(t, []any{"*"}, q.Get(doc))

	empty, err := q.Run(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFormat(t *testing.T) {
	results, err := Run(routetest.Docusaurus(), "$[12]")
	require.NoError(t, err)

	got := Format(append([]any{"/"}, results...))
	assert.Equal(t, "/\n{\"component\":{\"hash\":\"e5f\",\"module\":\"/\"},\"exact\":true,\"path\":\"/\"}\n", got)
}
