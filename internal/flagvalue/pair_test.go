package flagvalue

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPair(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give string
		want Pair
	}{
		{desc: "simple", give: "note=callout", want: Pair{Name: "note", Value: "callout"}},
		{desc: "spaces", give: " note = callout ", want: Pair{Name: "note", Value: "callout"}},
		{desc: "value with equals", give: "a=b=c", want: Pair{Name: "a", Value: "b=c"}},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			var got Pair
			require.NoError(t, got.Set(tt.give))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, got.Get())
			assert.Equal(t, tt.want.Name+"="+tt.want.Value, got.String())
		})
	}
}

func TestPair_error(t *testing.T) {
	t.Parallel()

	for _, give := range []string{"", "foo", "=bar", "foo=", "="} {
		t.Run(give, func(t *testing.T) {
			t.Parallel()

			var p Pair
			assert.ErrorContains(t, p.Set(give), "expected NAME=VALUE")
		})
	}
}

func TestPair_list(t *testing.T) {
	t.Parallel()

	fset := flag.NewFlagSet(t.Name(), flag.ContinueOnError)
	fset.SetOutput(io.Discard)

	var got []Pair
	fset.Var(ListOf(&got), "pair", "")
	require.NoError(t, fset.Parse([]string{"-pair", "a=x", "-pair=b=y,c=z"}))

	assert.Equal(t, []Pair{
		{Name: "a", Value: "x"},
		{Name: "b", Value: "y"},
		{Name: "c", Value: "z"},
	}, got)
}
