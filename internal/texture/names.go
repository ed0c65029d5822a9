// Package texture provides the flat image cache consumed by the surface
// engine: long-name lookup, load state, scaled sizes and alpha tests.
package texture

import (
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ClassicNameLength is the longest texture name legacy formats can store.
const ClassicNameLength = 8

// EmptyName marks an unset texture.
const EmptyName = "-"

// EmptyLongName is the long name of EmptyName.
var EmptyLongName = MakeLongName(EmptyName)

// MakeLongName hashes a texture name case-insensitively.
func MakeLongName(name string) uint64 {
	return xxhash.Sum64String(strings.ToUpper(name))
}

// ShortName derives the classic lump name of a texture path:
// "textures/Grass01.png" becomes "GRASS01".
func ShortName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.ToUpper(base)
	if len(base) > ClassicNameLength {
		base = base[:ClassicNameLength]
	}
	return base
}
