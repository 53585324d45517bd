package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWindowId(t *testing.T) {
	cases := []struct {
		name   string
		before []string
		after  []string
		expect string
	}{
		{
			name:   "no change",
			before: []string{"des-1-window"},
			after:  []string{"des-1-window"},
			expect: "",
		},
		{
			name:   "one new",
			before: []string{"des-1-window"},
			after:  []string{"des-1-window", "most-2-window"},
			expect: "most-2-window",
		},
		{
			name:   "newest of several",
			before: nil,
			after:  []string{"des-1-window", "most-2-window"},
			expect: "most-2-window",
		},
		{
			name:   "window closed",
			before: []string{"des-1-window", "most-2-window"},
			after:  []string{"des-1-window"},
			expect: "",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.expect, newWindowId(c.before, c.after))
		})
	}
}

func TestWindowSelector(t *testing.T) {
	w := &Window{Id: "des-3-window"}
	require.Equal(t, `[id='des-3-window']`, w.Selector())
}
