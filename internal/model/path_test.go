package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathLower(t *testing.T) {
	require.Equal(t, "art/tex/road_d.dds", Path(`ART\Tex\Road_D.DDS`).Lower())
	require.Equal(t, "info.json", Path("info.json").Lower())
}

func TestPathBaseAndDir(t *testing.T) {
	p := Path(`main\MissionGroup\items.level.json`)

	require.Equal(t, "items.level.json", p.Base())
	require.Equal(t, Path("main/MissionGroup"), p.Dir())
	require.Equal(t, Path("."), Path("info.json").Dir())
}
