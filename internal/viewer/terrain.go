package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"sim-maps/internal/terrain"
	"sim-maps/internal/viewer/frame"
)

// maxTerrainSide caps the mesh resolution; larger height maps are subsampled.
const maxTerrainSide = 256

type terrainMesh struct {
	version uint64
	mesh    rl.Mesh
	mtl     rl.Material
}

// terrains caches one mesh per height map, rebuilt when its samples change.
type terrains struct {
	cache map[*terrain.HeightMap]*terrainMesh
}

func newTerrains() *terrains {
	return &terrains{cache: make(map[*terrain.HeightMap]*terrainMesh)}
}

// heightImage renders hm as a grayscale image normalized to its height range. Image
// columns run along world X and rows along viewer Z, which is world -Y.
func heightImage(hm *terrain.HeightMap) *rl.Image {
	w, h := hm.XSamples, hm.YSamples
	sx, sy := 1, 1
	for w/sx > maxTerrainSide {
		sx++
	}
	for h/sy > maxTerrainSide {
		sy++
	}
	iw, ih := (w+sx-1)/sx, (h+sy-1)/sy
	lo, hi := hm.MinMax()
	span := hi - lo
	img := rl.GenImageColor(iw, ih, rl.Black)
	for c := 0; c < iw; c++ {
		for r := 0; r < ih; r++ {
			v := 0.0
			if span > 0 {
				v = (hm.At(c*sx, h-1-r*sy) - lo) / span
			}
			g := uint8(v * 255)
			rl.ImageDrawPixel(img, int32(c), int32(r), rl.NewColor(g, g, g, 255))
		}
	}
	return img
}

func (t *terrains) get(tr frame.Terrain) *terrainMesh {
	m, ok := t.cache[tr.Source]
	if ok && m.version == tr.Version {
		return m
	}
	if ok {
		rl.UnloadMesh(&m.mesh)
	} else {
		m = &terrainMesh{mtl: rl.LoadMaterialDefault()}
		t.cache[tr.Source] = m
	}
	img := heightImage(tr.Source)
	m.mesh = rl.GenMeshHeightmap(*img, rl.NewVector3(tr.Size[0], tr.Size[1], tr.Size[2]))
	rl.UnloadImage(img)
	m.version = tr.Version
	return m
}

// draw renders every terrain of f and drops meshes for height maps no longer present.
func (t *terrains) draw(f frame.Frame) {
	alive := make(map[*terrain.HeightMap]bool, len(f.Terrains))
	for _, tr := range f.Terrains {
		alive[tr.Source] = true
		m := t.get(tr)
		if m.mesh.VertexCount == 0 {
			continue
		}
		if albedo := m.mtl.GetMap(rl.MapAlbedo); albedo != nil {
			albedo.Color = rl.NewColor(tr.Color.R, tr.Color.G, tr.Color.B, tr.Color.A)
		}
		rl.DrawMesh(m.mesh, m.mtl, rl.MatrixTranslate(tr.Origin[0], tr.Origin[1], tr.Origin[2]))
	}
	for hm, m := range t.cache {
		if !alive[hm] {
			rl.UnloadMesh(&m.mesh)
			delete(t.cache, hm)
		}
	}
}

func (t *terrains) unload() {
	for hm, m := range t.cache {
		rl.UnloadMesh(&m.mesh)
		delete(t.cache, hm)
	}
}
