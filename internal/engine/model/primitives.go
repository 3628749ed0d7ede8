package model

// CubeVertices returns the interleaved vertices and indices of a unit
// cube centered at the origin with per-face normals.
func CubeVertices(size float32) ([]Vertex, []uint32) {
	h := size / 2

	faces := []struct {
		normal  [3]float32
		corners [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}

	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	var vertices []Vertex
	var indices []uint32
	for _, face := range faces {
		base := uint32(len(vertices))
		for i, c := range face.corners {
			vertices = append(vertices, Vertex{
				Position: c,
				Normal:   face.normal,
				TexCoord: uvs[i],
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	return vertices, indices
}

// PlaneVertices returns a flat XZ plane of the given half-extent with an
// upward normal.
func PlaneVertices(halfExtent float32) ([]Vertex, []uint32) {
	e := halfExtent
	vertices := []Vertex{
		{Position: [3]float32{-e, 0, -e}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{0, 0}},
		{Position: [3]float32{e, 0, -e}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{1, 0}},
		{Position: [3]float32{e, 0, e}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{1, 1}},
		{Position: [3]float32{-e, 0, e}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{0, 1}},
	}
	indices := []uint32{0, 2, 1, 0, 3, 2}
	return vertices, indices
}
