package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/notargets/gocpg/grid"
	"github.com/pkg/errors"
)

const valuesPerLine = 6

// WriteGRDECL stores a section in the layout read by ReadGRDECL.
func WriteGRDECL(filename string, sec *grid.Section) (err error) {
	var file *os.File
	if file, err = os.Create(filename); err != nil {
		return errors.Wrapf(err, "unable to create file %s", filename)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "closing %s", filename)
		}
	}()
	return EncodeGRDECL(file, sec)
}

// EncodeGRDECL writes the grid keywords of sec, compressing runs of equal
// values into "n*value" repeats.
func EncodeGRDECL(w io.Writer, sec *grid.Section) error {
	if err := sec.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "SPECGRID\n %d %d %d 1 F /\n\n", sec.Dims[0], sec.Dims[1], sec.Dims[2])

	writeRecord(bw, "COORD", formatFloats(sec.Coord))
	writeRecord(bw, "ZCORN", formatFloats(sec.Zcorn))
	if sec.Actnum != nil {
		act := make([]string, len(sec.Actnum))
		for i, a := range sec.Actnum {
			act[i] = "0"
			if a {
				act[i] = "1"
			}
		}
		writeRecord(bw, "ACTNUM", act)
	}
	names := make([]string, 0, len(sec.Regions))
	for name := range sec.Regions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		vals := make([]string, len(sec.Regions[name]))
		for i, v := range sec.Regions[name] {
			vals[i] = strconv.Itoa(v)
		}
		writeRecord(bw, name, vals)
	}
	return errors.Wrap(bw.Flush(), "writing grid keywords")
}

func formatFloats(v []float64) []string {
	out := make([]string, len(v))
	for i, x := range v {
		out[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return out
}

func writeRecord(w *bufio.Writer, key string, vals []string) {
	fmt.Fprintln(w, key)
	var n int
	for i := 0; i < len(vals); {
		run := 1
		for i+run < len(vals) && vals[i+run] == vals[i] {
			run++
		}
		if run > 1 {
			fmt.Fprintf(w, " %d*%s", run, vals[i])
		} else {
			fmt.Fprintf(w, " %s", vals[i])
		}
		i += run
		if n++; n%valuesPerLine == 0 {
			fmt.Fprintln(w)
		}
	}
	fmt.Fprint(w, " /\n\n")
}
