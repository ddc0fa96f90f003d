package markup

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_Set(t *testing.T) {
	t.Parallel()

	tests := []struct {
		give    string
		want    Level
		wantErr string
	}{
		{give: "info", want: Info},
		{give: "WARNING", want: Warning},
		{give: " error ", want: Error},
		{give: "severe", want: Severe},
		{give: "2", want: Warning},
		{give: "loud", wantErr: `unknown level "loud"`},
	}

	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			t.Parallel()

			var lvl Level
			err := lvl.Set(tt.give)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, lvl)
			assert.Equal(t, tt.want, lvl.Get())
		})
	}
}

func TestLevel_flag(t *testing.T) {
	t.Parallel()

	fset := flag.NewFlagSet(t.Name(), flag.ContinueOnError)
	fset.SetOutput(io.Discard)

	lvl := Warning
	fset.Var(&lvl, "level", "")
	require.NoError(t, fset.Parse([]string{"-level=error"}))
	assert.Equal(t, Error, lvl)

	assert.Error(t, fset.Parse([]string{"-level=nope"}))
}

func TestLevel_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "info", Info.String())
	assert.Equal(t, "severe", Severe.String())
	assert.Equal(t, "Level(42)", Level(42).String())
}

func TestLevel_text(t *testing.T) {
	t.Parallel()

	b, err := Error.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "error", string(b))

	var lvl Level
	require.NoError(t, lvl.UnmarshalText([]byte("warning")))
	assert.Equal(t, Warning, lvl)
}

func TestProblem_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "line 3: oops", (&Problem{Line: 3, Message: "oops"}).Error())
	assert.Equal(t, "oops", (&Problem{Message: "oops"}).Error())
}
