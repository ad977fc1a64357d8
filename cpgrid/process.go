package cpgrid

import (
	"context"
	"time"

	"github.com/notargets/gocpg/grid"
	"github.com/notargets/gocpg/mesh"
	"github.com/pkg/errors"
)

// MeshFromGridSection runs the whole pipeline on a grid section: pillars,
// depth repair, corner resolution and topology assembly. The section is not
// modified; depth repair works on a copy. Any failure aborts the build and no
// mesh is returned. Recoverable conditions are listed in the Report.
func MeshFromGridSection(ctx context.Context, sec *grid.Section, cfg Config) (*mesh.Mesh, *Report, error) {
	cfg.setDefaults()
	start := time.Now()
	rep := newReport()
	log := cfg.Log.WithField("run", rep.RunID.String())

	if err := sec.Validate(); err != nil {
		return nil, nil, err
	}
	active := sec.Actnum
	if cfg.Actnum != nil {
		if len(cfg.Actnum) != sec.NumCells() {
			return nil, nil, &grid.MalformedGridError{Keyword: "ACTNUM", Got: len(cfg.Actnum), Want: sec.NumCells()}
		}
		active = cfg.Actnum
	}
	work := sec.Clone()

	pillars, err := BuildPillars(work)
	if err != nil {
		return nil, nil, err
	}
	if rep.Repair, err = RepairZcorn(work, cfg.RepairZcorn); err != nil {
		return nil, nil, err
	}
	if rep.Repair.Modified > 0 {
		log.WithField("pillars", len(rep.Repair.Pillars)).Warnf("repaired %d corner depths", rep.Repair.Modified)
	}
	if err = ctx.Err(); err != nil {
		return nil, nil, err
	}

	cells, degenerate, err := ResolveCorners(ctx, work, pillars, active, cfg)
	rep.Degenerate = degenerate
	if err != nil {
		return nil, rep, err
	}
	for _, d := range degenerate {
		log.Debug(d.Error())
	}
	for idx := range cells {
		c := &cells[idx]
		switch {
		case !c.Active:
			rep.Inactive++
		case !c.Degenerate && cfg.ProcessPinch && c.ZeroThickness():
			i, j, k := work.CellIJK(idx)
			rep.Pinched = append(rep.Pinched, [3]int{i, j, k})
		}
	}
	if err = ctx.Err(); err != nil {
		return nil, nil, err
	}

	m, err := Assemble(ctx, work, pillars, cells, cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "assembling topology")
	}
	rep.countConnections(m)
	rep.Elapsed = time.Since(start)
	log.WithFields(rep.Fields()).Infof("built mesh with %d cells, %d faces, %d vertices",
		m.NumCells(), m.NumFaces(), m.NumVertices())
	return m, rep, nil
}
