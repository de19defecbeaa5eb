package extract

import (
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/mapforge/levelsweep/internal/model"
	"github.com/mapforge/levelsweep/internal/parser"
)

func mustParse(t *testing.T, rel m.Path, src string) *m.ParsedDocument {
	t.Helper()

	doc, err := parser.Parse(rel, []byte(src), m.NewDiagnosticLog())
	require.NoError(t, err)
	require.NotNil(t, doc)

	return doc
}

func values(refs []RawRef) []string {
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = ref.Value
	}

	return out
}

func TestReferencesMaterial(t *testing.T) {
	doc := mustParse(t, "art/shapes/rocks.materials.json", `{
		"rock_gray": {
			"name": "rock_gray",
			"Stages": [
				{"colorMap": "art/shapes/rock_d.dds", "normalMap": "art/shapes/rock_n.dds"},
				{"specularMap": "art/shapes/rock_s.dds"}
			]
		}
	}`)

	refs := References(doc)
	require.ElementsMatch(t,
		[]string{"art/shapes/rock_d.dds", "art/shapes/rock_n.dds", "art/shapes/rock_s.dds"},
		values(refs))
}

func TestReferencesMissionGroup(t *testing.T) {
	doc := mustParse(t, "main/MissionGroup/items.level.json", `
{"class":"TSStatic","shapeName":"/levels/island/art/shapes/rock.dae","position":[1,2,3]}
{"class":"SimGroup","name":"nested","children":[{"class":"TSStatic","shapeName":"art/shapes/tree.dae"}]}
`)

	refs := References(doc)
	require.Equal(t,
		[]string{"/levels/island/art/shapes/rock.dae", "art/shapes/tree.dae"},
		values(refs))
}

func TestReferencesIgnoresUnlistedFields(t *testing.T) {
	doc := mustParse(t, "main/MissionGroup/items.level.json",
		`{"class":"TSStatic","annotation":"art/not/a/ref.dds","datablock":"rock_block"}`)

	require.Empty(t, References(doc))
}

func TestReferencesMeshRef(t *testing.T) {
	doc := mustParse(t, "forest/pines.forest4.json", `
{"type":"pine_tall","shapeFile":"art/shapes/trees/pine.dae","pos":[1,2,3]}
{"type":"pine_small","shapeFile":"art/shapes/trees/pine_small.dae","pos":[4,5,6]}
`)

	refs := References(doc)
	require.Equal(t,
		[]string{"art/shapes/trees/pine.dae", "art/shapes/trees/pine_small.dae"},
		values(refs))
}

func TestReferencesDescriptorPreviews(t *testing.T) {
	doc := mustParse(t, "info.json",
		`{"title":"Island","previews":["island_preview.png"],"spawnPointPreviews":["spawn_a.png"]}`)

	refs := References(doc)
	require.ElementsMatch(t, []string{"island_preview.png", "spawn_a.png"}, values(refs))
}

func TestMaterialUsesAndDefs(t *testing.T) {
	group := mustParse(t, "main/g/items.level.json",
		`{"class":"DecalRoad","materialName":"road_asphalt","nodes":[[0,0,0,4]]}`)
	require.Equal(t, []string{"road_asphalt"}, MaterialUses(group))
	require.Empty(t, MaterialDefs(group))

	library := mustParse(t, "art/road/materials.json", `{
		"road_asphalt": {"name": "road_asphalt"},
		"road_dirt": {"name": "road_dirt"}
	}`)
	require.ElementsMatch(t, []string{"road_asphalt", "road_dirt"}, MaterialDefs(library))
	require.Empty(t, MaterialUses(library))
}
