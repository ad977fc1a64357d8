package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/gocpg/grid"
	"github.com/pkg/errors"
)

// Keywords that introduce a section or toggle state and carry no data record.
var bareKeywords = map[string]bool{
	"RUNSPEC": true, "GRID": true, "EDIT": true, "PROPS": true, "REGIONS": true,
	"SOLUTION": true, "SUMMARY": true, "SCHEDULE": true, "ECHO": true, "NOECHO": true,
	"END": true, "INIT": true, "NEWTRAN": true, "OLDTRAN": true, "NONNC": true,
	"NOGGF": true, "NOSIM": true, "NOINSPEC": true, "NORSSPEC": true, "NOWARN": true,
	"WARN": true, "MULTOUT": true, "MULTOUTS": true, "UNIFOUT": true, "UNIFIN": true,
	"FMTOUT": true, "FMTIN": true, "METRIC": true, "FIELD": true, "LAB": true,
	"OIL": true, "WATER": true, "GAS": true, "DISGAS": true, "VAPOIL": true,
	"MONITOR": true, "NOMONITO": true, "RPTONLY": true,
}

// ReadGRDECL reads the grid keywords of an Eclipse style GRDECL file:
// SPECGRID or DIMENS, COORD, ZCORN, ACTNUM and the integer region arrays.
// Other keywords and their records are skipped.
func ReadGRDECL(filename string) (*grid.Section, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open file %s", filename)
	}
	defer file.Close()
	sec, err := ParseGRDECL(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}
	return sec, nil
}

// ParseGRDECL is ReadGRDECL on an open stream.
func ParseGRDECL(r io.Reader) (*grid.Section, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	doc := make(map[string]interface{})
	for key, rec := range records {
		switch {
		case key == "SPECGRID" || key == "DIMENS":
			if len(rec) < 3 {
				return nil, &grid.MalformedGridError{Keyword: key, Got: len(rec), Want: 3}
			}
			dims, err := parseInts(key, rec[:3])
			if err != nil {
				return nil, err
			}
			doc["DIMENS"] = dims
		case key == "COORD" || key == "ZCORN":
			vals, err := parseFloats(key, rec)
			if err != nil {
				return nil, err
			}
			doc[key] = vals
		case key == "ACTNUM" || isRegion(key):
			vals, err := parseInts(key, rec)
			if err != nil {
				return nil, err
			}
			doc[key] = vals
		}
	}
	return grid.FromDocument(doc)
}

func wanted(key string) bool {
	switch key {
	case "SPECGRID", "DIMENS", "COORD", "ZCORN", "ACTNUM":
		return true
	}
	return isRegion(key)
}

func isRegion(key string) bool {
	for _, r := range grid.RegionKeywords {
		if r == key {
			return true
		}
	}
	return false
}

// readRecords splits the stream into keyword records. A record runs from its
// keyword to the next "/" and has "n*value" repeats expanded. Only the records
// of wanted keywords are kept.
func readRecords(r io.Reader) (map[string][]string, error) {
	var (
		scanner = bufio.NewScanner(r)
		records = make(map[string][]string)
		key     string
		open    bool
		lineNo  int
	)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if ind := strings.Index(line, "--"); ind >= 0 {
			line = line[:ind]
		}
		for _, tok := range strings.Fields(line) {
			if !open {
				key = strings.ToUpper(tok)
				if bareKeywords[key] {
					continue
				}
				if _, dup := records[key]; dup {
					return nil, errors.Errorf("line %d: keyword %s appears twice", lineNo, key)
				}
				if wanted(key) {
					records[key] = nil
				}
				open = true
				continue
			}
			done := strings.HasSuffix(tok, "/")
			tok = strings.TrimSuffix(tok, "/")
			if tok != "" && wanted(key) {
				vals, err := expand(tok)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d: %s", lineNo, key)
				}
				records[key] = append(records[key], vals...)
			}
			if done {
				open = false
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning grid file")
	}
	if open {
		return nil, errors.Errorf("keyword %s is missing its terminating /", key)
	}
	return records, nil
}

func expand(tok string) ([]string, error) {
	ind := strings.Index(tok, "*")
	if ind < 0 {
		return []string{tok}, nil
	}
	n, err := strconv.Atoi(tok[:ind])
	if err != nil || n < 1 {
		return nil, errors.Errorf("bad repeat count in %q", tok)
	}
	val := tok[ind+1:]
	if val == "" {
		return nil, errors.Errorf("defaulted values %q are not supported", tok)
	}
	out := make([]string, n)
	for i := range out {
		out[i] = val
	}
	return out, nil
}

func parseFloats(key string, rec []string) ([]float64, error) {
	out := make([]float64, len(rec))
	for i, s := range rec {
		v, err := strconv.ParseFloat(strings.Replace(strings.ToUpper(s), "D", "E", 1), 64)
		if err != nil {
			return nil, &grid.MalformedGridError{Keyword: key, Reason: fmt.Sprintf("entry %d: %q is not a number", i, s)}
		}
		out[i] = v
	}
	return out, nil
}

func parseInts(key string, rec []string) ([]int, error) {
	out := make([]int, len(rec))
	for i, s := range rec {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, &grid.MalformedGridError{Keyword: key, Reason: fmt.Sprintf("entry %d: %q is not an integer", i, s)}
		}
		out[i] = v
	}
	return out, nil
}
