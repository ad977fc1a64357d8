package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// PolygonGeometry computes the vector-area based geometry of a (possibly
// non-planar) polygon: the area, the unit normal following the right hand
// rule on the loop order, and the area weighted centroid.
func PolygonGeometry(pts []r3.Vec) (area float64, normal, centroid r3.Vec) {
	n := len(pts)
	if n == 0 {
		return
	}
	var center r3.Vec
	for _, p := range pts {
		center = r3.Add(center, p)
	}
	center = r3.Scale(1/float64(n), center)

	var (
		vecArea r3.Vec
		wsum    float64
		wcent   r3.Vec
	)
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		tri := r3.Scale(0.5, r3.Cross(r3.Sub(a, center), r3.Sub(b, center)))
		vecArea = r3.Add(vecArea, tri)
		w := r3.Norm(tri)
		wsum += w
		wcent = r3.Add(wcent, r3.Scale(w/3, r3.Add(center, r3.Add(a, b))))
	}
	area = r3.Norm(vecArea)
	if area > 0 {
		normal = r3.Scale(1/area, vecArea)
	}
	if wsum > 0 {
		centroid = r3.Scale(1/wsum, wcent)
	} else {
		centroid = center
	}
	return
}

// ComputeGeometry fills face areas, normals and centroids followed by cell
// volumes and centroids. Face loops must already be oriented.
func (m *Mesh) ComputeGeometry() {
	for f := range m.Faces {
		face := &m.Faces[f]
		face.Area, face.Normal, face.Centroid = PolygonGeometry(m.FaceVertices(f))
	}
	for c := range m.Cells {
		m.Cells[c].Volume, m.Cells[c].Centroid = m.cellVolume(c)
	}
}

// outwardSign is +1 when the stored face normal points out of cell c.
func (m *Mesh) outwardSign(c, f int) float64 {
	if m.Faces[f].Neighbors[0] == c {
		return 1
	}
	return -1
}

// cellVolume splits every face into triangles fanned around the face centroid
// and sums the signed tetrahedra they form with a reference point.
func (m *Mesh) cellVolume(c int) (vol float64, centroid r3.Vec) {
	cell := &m.Cells[c]
	if len(cell.Faces) == 0 {
		return
	}
	var ref r3.Vec
	for _, f := range cell.Faces {
		ref = r3.Add(ref, m.Faces[f].Centroid)
	}
	ref = r3.Scale(1/float64(len(cell.Faces)), ref)

	var moment r3.Vec
	for _, f := range cell.Faces {
		pts := m.FaceVertices(f)
		fc := m.Faces[f].Centroid
		sign := m.outwardSign(c, f)
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			v := sign * r3.Dot(r3.Sub(fc, ref), r3.Cross(r3.Sub(a, ref), r3.Sub(b, ref))) / 6
			vol += v
			moment = r3.Add(moment, r3.Scale(v/4, r3.Add(ref, r3.Add(fc, r3.Add(a, b)))))
		}
	}
	if math.Abs(vol) > 0 {
		centroid = r3.Scale(1/vol, moment)
	} else {
		centroid = ref
	}
	return
}

// CellClosure measures how well the faces of cell c close its surface: the
// norm of the summed outward vector areas relative to the total face area.
// Watertight cells give zero up to round-off.
func (m *Mesh) CellClosure(c int) float64 {
	var (
		sum   r3.Vec
		total float64
	)
	for _, f := range m.Cells[c].Faces {
		face := &m.Faces[f]
		sum = r3.Add(sum, r3.Scale(m.outwardSign(c, f)*face.Area, face.Normal))
		total += face.Area
	}
	if total == 0 {
		return 0
	}
	return r3.Norm(sum) / total
}

// TotalVolume sums all cell volumes.
func (m *Mesh) TotalVolume() (v float64) {
	for i := range m.Cells {
		v += m.Cells[i].Volume
	}
	return
}
