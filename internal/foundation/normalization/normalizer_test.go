package normalization

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type color string

const (
	red  color = "red"
	blue color = "blue"
)

func newColors() *Normalizer[color] {
	return New("color", map[string]color{"red": red, "Blue": blue, "navy": blue}, red)
}

func TestNormalize(t *testing.T) {
	n := newColors()
	cases := map[string]color{
		"red":     red,
		"  BLUE ": blue,
		"Navy":    blue,
		"green":   red,
		"":        red,
	}
	for in, want := range cases {
		require.Equal(t, want, n.Normalize(in), "input %q", in)
	}
}

func TestParse(t *testing.T) {
	n := newColors()

	got, err := n.Parse(" NAVY")
	require.NoError(t, err)
	require.Equal(t, blue, got)

	got, err = n.Parse("")
	require.NoError(t, err)
	require.Equal(t, red, got)

	_, err = n.Parse("green")
	require.ErrorContains(t, err, `invalid color "green"`)
	require.ErrorContains(t, err, "blue, navy, red")
}

func TestKeysIsACopy(t *testing.T) {
	n := newColors()
	keys := n.Keys()
	keys[0] = "mutated"
	require.Equal(t, []string{"blue", "navy", "red"}, n.Keys())
}
