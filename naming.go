package main

import (
	"path/filepath"
	"strings"
)

const bumpMarker = "bump"

// OutputBaseName returns the file name of path without its last extension,
// with every "bump" removed when removeBump is set. Removal repeats until no
// occurrence is left, so "bbumpump" ends up empty rather than "bump".
func OutputBaseName(path string, removeBump bool) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	if removeBump {
		for strings.Contains(name, bumpMarker) {
			name = strings.ReplaceAll(name, bumpMarker, "")
		}
	}
	return name
}

// OutputFileName joins base and suffix with "_" unless base already ends in one.
func OutputFileName(base, suffix string) string {
	sep := "_"
	if strings.HasSuffix(base, "_") {
		sep = ""
	}
	return base + sep + suffix + ".tga"
}
