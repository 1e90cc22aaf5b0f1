package scrub

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCursor_EmptyCollectionStaysUnset(t *testing.T) {
	for _, d := range []Direction{Left, Right, Up, Down} {
		t.Run(d.String(), func(t *testing.T) {
			c := Cursor{}.Move(d, 0)
			require.False(t, c.IsSet())
			require.Equal(t, "None", c.String())
		})
	}
}

func TestCursor_SingleElementAlwaysZero(t *testing.T) {
	for _, d := range []Direction{Left, Right, Up, Down} {
		t.Run(d.String(), func(t *testing.T) {
			c := Cursor{}.Move(d, 1)
			i, ok := c.Index()
			require.True(t, ok)
			require.Equal(t, 0, i)

			i, _ = c.Move(d, 1).Index()
			require.Equal(t, 0, i)
		})
	}
}

func TestCursor_RightRightLeft(t *testing.T) {
	var seq []string
	c := Cursor{}
	seq = append(seq, c.String())
	for _, d := range []Direction{Right, Right, Left} {
		c = c.Move(d, 5)
		seq = append(seq, c.String())
	}
	require.Equal(t, []string{"None", "0", "1", "0"}, seq)
}

func TestCursor_Moves(t *testing.T) {
	tests := []struct {
		name  string
		start Cursor
		dir   Direction
		n     int
		want  string
	}{
		{"left from unset", Cursor{}, Left, 5, "0"},
		{"right from unset", Cursor{}, Right, 5, "0"},
		{"up from unset", Cursor{}, Up, 5, "0"},
		{"down from unset", Cursor{}, Down, 5, "4"},
		{"left clamps at zero", At(0), Left, 5, "0"},
		{"right clamps at end", At(4), Right, 5, "4"},
		{"left steps back", At(3), Left, 5, "2"},
		{"right steps forward", At(3), Right, 5, "4"},
		{"up jumps to start", At(3), Up, 5, "0"},
		{"down jumps to end", At(1), Down, 5, "4"},
		{"set cursor on empty collection resets", At(2), Right, 0, "None"},
		{"left from past the end clamps", At(9), Left, 5, "4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.start.Move(tt.dir, tt.n).String())
		})
	}
}

func TestProperty_CursorStaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 50).Draw(t, "n")
		moves := rapid.SliceOf(rapid.SampledFrom([]Direction{Left, Right, Up, Down})).Draw(t, "moves")

		c := Cursor{}
		for _, d := range moves {
			c = c.Move(d, n)
			i, ok := c.Index()
			if n == 0 {
				if ok {
					t.Fatalf("cursor set on empty collection")
				}
				continue
			}
			if !ok {
				t.Fatalf("cursor unset after %s on n=%d", d, n)
			}
			if i < 0 || i >= n {
				t.Fatalf("cursor %d outside [0,%d)", i, n)
			}
		}
	})
}

func TestAction_Direction(t *testing.T) {
	tests := []struct {
		action Action
		dir    Direction
		ok     bool
	}{
		{ActionLeft, Left, true},
		{ActionRight, Right, true},
		{ActionUp, Up, true},
		{ActionDown, Down, true},
		{ActionConfirm, 0, false},
		{ActionCancel, 0, false},
		{ActionQuit, 0, false},
		{ActionNone, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			d, ok := tt.action.Direction()
			require.Equal(t, tt.ok, ok)
			if ok {
				require.Equal(t, tt.dir, d)
			}
		})
	}
}

func TestAction_String(t *testing.T) {
	require.Equal(t, "confirm", ActionConfirm.String())
	require.Equal(t, "unknown", Action(99).String())
	require.Equal(t, "unknown", Direction(99).String())
}
