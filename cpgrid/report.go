package cpgrid

import (
	"time"

	"github.com/google/uuid"
	"github.com/notargets/gocpg/mesh"
	"github.com/sirupsen/logrus"
)

// Report lists every recoverable condition met during a build.
type Report struct {
	RunID      uuid.UUID
	Repair     RepairSummary
	Degenerate []DegenerateGeometryError // dropped cells
	Pinched    [][3]int                  // active zero thickness cells elided by pinch processing
	Inactive   int                       // cells excluded by the active mask

	CollapsedCells   int // emitted cells with at least one collapsed pillar
	FaultConnections int
	PinchConnections int
	Elapsed          time.Duration
}

func newReport() *Report {
	return &Report{RunID: uuid.New()}
}

func (r *Report) countConnections(m *mesh.Mesh) {
	for _, nnc := range m.NNCs {
		switch nnc.Kind {
		case mesh.FaultConnection:
			r.FaultConnections++
		case mesh.PinchConnection:
			r.PinchConnections++
		}
	}
	for _, c := range m.Cells {
		if c.Collapsed != 0 {
			r.CollapsedCells++
		}
	}
}

// Fields renders the report counts for structured logging.
func (r *Report) Fields() logrus.Fields {
	return logrus.Fields{
		"run":              r.RunID.String(),
		"repaired_depths":  r.Repair.Modified,
		"repaired_pillars": len(r.Repair.Pillars),
		"degenerate":       len(r.Degenerate),
		"pinched":          len(r.Pinched),
		"inactive":         r.Inactive,
		"collapsed":        r.CollapsedCells,
		"fault_nncs":       r.FaultConnections,
		"pinch_nncs":       r.PinchConnections,
		"elapsed":          r.Elapsed,
	}
}
