package InputParameters

import (
	"fmt"
	"io"
	"math"

	"github.com/ghodss/yaml"
	"github.com/notargets/gocpg/cpgrid"
	"github.com/notargets/gocpg/horizons"
	"github.com/pkg/errors"
)

// Mesh build options obtained from the YAML input file. Unset entries keep the
// builder defaults.
type BuildParameters struct {
	Title                 string   `json:"Title"`
	RepairZcorn           *bool    `json:"RepairZcorn"`
	ProcessPinch          bool     `json:"ProcessPinch"`
	Tolerance             float64  `json:"Tolerance"`
	MaxDegenerateFraction float64  `json:"MaxDegenerateFraction"`
	Workers               int      `json:"Workers"`
	Regions               []string `json:"Regions"` // region arrays exported per cell
}

func (bp *BuildParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, bp)
}

// Config overlays the parameters on cfg.
func (bp *BuildParameters) Config(cfg cpgrid.Config) cpgrid.Config {
	if bp.RepairZcorn != nil {
		cfg.RepairZcorn = *bp.RepairZcorn
	}
	cfg.ProcessPinch = cfg.ProcessPinch || bp.ProcessPinch
	if bp.Tolerance > 0 {
		cfg.Tolerance = bp.Tolerance
	}
	if bp.MaxDegenerateFraction > 0 {
		cfg.MaxDegenerateFraction = bp.MaxDegenerateFraction
	}
	if bp.Workers > 0 {
		cfg.Workers = bp.Workers
	}
	return cfg
}

// Print lists the options of cfg, the parameters overlaid with any flags.
func (bp *BuildParameters) Print(w io.Writer, cfg cpgrid.Config) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", bp.Title)
	fmt.Fprintf(w, "[%v]\t\t\t= Repair ZCORN\n", cfg.RepairZcorn)
	fmt.Fprintf(w, "[%v]\t\t\t= Process Pinch\n", cfg.ProcessPinch)
	fmt.Fprintf(w, "%8.2e\t\t= Tolerance\n", cfg.Tolerance)
	fmt.Fprintf(w, "%8.2e\t\t= Max Degenerate Fraction\n", cfg.MaxDegenerateFraction)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Workers\n", cfg.Workers)
	fmt.Fprintf(w, "%v\t\t\t= Regions\n", bp.Regions)
}

// A planar fault through Point with horizontal Normal. The YAML decoder reads
// a bare Y key as a boolean, so coordinates are given as pairs.
type FaultParameters struct {
	Point  [2]float64 `json:"Point"`
	Normal [2]float64 `json:"Normal"`
	Throw  float64    `json:"Throw"`
}

type TaperParameters struct {
	DX float64 `json:"DX"`
	DY float64 `json:"DY"`
}

// Horizon stack and generator options obtained from the YAML input file.
// Horizons are listed from the top down, each indexed [i][j] over XCoords and
// YCoords; a null sample is undefined.
type HorizonParameters struct {
	Title      string            `json:"Title"`
	XCoords    []float64         `json:"XCoords"`
	YCoords    []float64         `json:"YCoords"`
	Horizons   [][][]*float64    `json:"Horizons"`
	Size       [2]int            `json:"Size"`
	LayerWidth []int             `json:"LayerWidth"`
	Faults     []FaultParameters `json:"Faults"`
	Taper      *TaperParameters  `json:"Taper"`
}

func (hp *HorizonParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, hp); err != nil {
		return err
	}
	if len(hp.Horizons) < 2 {
		return errors.Errorf("need at least 2 horizons, got %d", len(hp.Horizons))
	}
	return nil
}

// Surfaces converts the horizon samples, mapping null to NaN.
func (hp *HorizonParameters) Surfaces() []horizons.Surface {
	out := make([]horizons.Surface, len(hp.Horizons))
	for h, rows := range hp.Horizons {
		s := make(horizons.Surface, len(rows))
		for i, row := range rows {
			s[i] = make([]float64, len(row))
			for j, v := range row {
				s[i][j] = math.NaN()
				if v != nil {
					s[i][j] = *v
				}
			}
		}
		out[h] = s
	}
	return out
}

// Options turns the faults into vertical transforms applied in order and the
// taper into a pillar transform.
func (hp *HorizonParameters) Options() horizons.Options {
	opts := horizons.Options{
		Size:       hp.Size,
		LayerWidth: hp.LayerWidth,
	}
	for _, f := range hp.Faults {
		pf := horizons.PlanarFault{
			X: f.Point[0], Y: f.Point[1], NX: f.Normal[0], NY: f.Normal[1], Throw: f.Throw,
		}
		opts.Transforms = append(opts.Transforms, pf.Transform())
	}
	if hp.Taper != nil {
		opts.PillarTransform = horizons.LinearTaper(hp.Taper.DX, hp.Taper.DY)
	}
	return opts
}

func (hp *HorizonParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", hp.Title)
	fmt.Fprintf(w, "[%d x %d]\t\t\t= Samples\n", len(hp.XCoords), len(hp.YCoords))
	fmt.Fprintf(w, "[%d]\t\t\t\t= Horizons\n", len(hp.Horizons))
	fmt.Fprintf(w, "%v\t\t\t= Size\n", hp.Size)
	fmt.Fprintf(w, "%v\t\t\t= Layer Width\n", hp.LayerWidth)
	for n, f := range hp.Faults {
		fmt.Fprintf(w, "Faults[%d] = %+v\n", n, f)
	}
	if hp.Taper != nil {
		fmt.Fprintf(w, "%+v\t= Taper\n", *hp.Taper)
	}
}
