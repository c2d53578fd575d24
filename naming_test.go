package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputBaseName(t *testing.T) {
	tests := []struct {
		path       string
		removeBump bool
		want       string
	}{
		{"textures/rock.dds", true, "rock"},
		{"bumpNormal_bump.dds", true, "Normal_"},
		{"bumpNormal_bump.dds", false, "bumpNormal_bump"},
		{"wall_Bump.dds", true, "wall_Bump"},
		{"a.b.dds", true, "a.b"},
		{"bumpbump.dds", true, ""},
		{"bbumpump.dds", true, ""},
		{"noext", true, "noext"},
		{"/abs/dir/metal__bump_.dds", true, "metal___"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputBaseName(tt.path, tt.removeBump))
		})
	}
}

func TestOutputBaseNameLeavesNoBump(t *testing.T) {
	names := []string{"bump", "xbumpy", "bbbumpumpump", "bu_mp", "bumpbumpbump_end"}
	for _, n := range names {
		got := OutputBaseName(n+".dds", true)
		assert.NotContains(t, got, "bump", n)
		if !strings.Contains(n, "bump") {
			assert.Equal(t, n, got)
		}
	}
}

func TestOutputFileName(t *testing.T) {
	assert.Equal(t, "rock_Spec.tga", OutputFileName("rock", "Spec"))
	assert.Equal(t, "rock_Spec.tga", OutputFileName("rock_", "Spec"))
	assert.Equal(t, "rock_Normal.tga", OutputFileName("rock", "Normal"))
	assert.Equal(t, "rock__Normal.tga", OutputFileName("rock__", "Normal"))
	assert.Equal(t, "_Spec.tga", OutputFileName("", "Spec"))
}
