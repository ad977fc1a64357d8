package grid

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// RegionKeywords are the integer per-cell arrays carried through untouched.
var RegionKeywords = []string{
	"SATNUM", "PVTNUM", "EQLNUM", "EOSNUM", "FIPNUM", "IMBNUM", "MULTNUM", "LAYERNUM",
}

// FromDocument extracts a Section from a nested key/value document, either a
// complete parsed deck (the "GRID" entry is used) or a bare grid section.
// Values may be typed slices or []interface{} as produced by generic decoders.
func FromDocument(doc map[string]interface{}) (*Section, error) {
	if g, ok := doc["GRID"]; ok {
		gm, ok := g.(map[string]interface{})
		if !ok {
			return nil, &MalformedGridError{Keyword: "GRID", Reason: fmt.Sprintf("unexpected type %T", g)}
		}
		doc = gm
	}
	var dimsRaw interface{}
	for _, key := range []string{"SPECGRID", "DIMENS", "cartDims"} {
		if v, ok := doc[key]; ok {
			dimsRaw = v
			break
		}
	}
	if dimsRaw == nil {
		return nil, &MalformedGridError{Keyword: "DIMENS", Reason: "missing grid dimensions"}
	}
	// SPECGRID carries extra trailing fields (LGR count, radial flag)
	if v, ok := dimsRaw.([]interface{}); ok && len(v) > 3 {
		dimsRaw = v[:3]
	}
	dims, err := toInts("DIMENS", dimsRaw)
	if err != nil {
		return nil, err
	}
	if len(dims) < 3 {
		return nil, &MalformedGridError{Keyword: "DIMENS", Got: len(dims), Want: 3}
	}
	sec := &Section{
		Dims:    [3]int{dims[0], dims[1], dims[2]},
		Regions: make(map[string][]int),
	}
	for _, key := range []string{"COORD", "ZCORN"} {
		raw, ok := doc[key]
		if !ok {
			return nil, &MalformedGridError{Keyword: key, Reason: "missing keyword"}
		}
		vals, err := toFloats(key, raw)
		if err != nil {
			return nil, err
		}
		if key == "COORD" {
			sec.Coord = vals
		} else {
			sec.Zcorn = vals
		}
	}
	if raw, ok := doc["ACTNUM"]; ok {
		if sec.Actnum, err = toBools("ACTNUM", raw); err != nil {
			return nil, err
		}
	}
	for key, raw := range doc {
		if !isRegionKeyword(key) {
			continue
		}
		vals, err := toInts(key, raw)
		if err != nil {
			return nil, err
		}
		sec.Regions[strings.ToUpper(key)] = vals
	}
	if err = sec.Validate(); err != nil {
		return nil, err
	}
	return sec, nil
}

// Document renders the section back into the keyword layout accepted by
// FromDocument.
func (s *Section) Document() map[string]interface{} {
	doc := map[string]interface{}{
		"DIMENS": []int{s.Dims[0], s.Dims[1], s.Dims[2]},
		"COORD":  s.Coord,
		"ZCORN":  s.Zcorn,
	}
	if s.Actnum != nil {
		doc["ACTNUM"] = s.Actnum
	}
	for k, v := range s.Regions {
		doc[k] = v
	}
	return doc
}

func isRegionKeyword(key string) bool {
	key = strings.ToUpper(key)
	for _, r := range RegionKeywords {
		if r == key {
			return true
		}
	}
	return false
}

func toFloats(key string, raw interface{}) ([]float64, error) {
	switch v := raw.(type) {
	case []float64:
		return v, nil
	case []interface{}:
		out := make([]float64, len(v))
		for i, x := range v {
			f, err := cast.ToFloat64E(x)
			if err != nil {
				return nil, errors.Wrapf(err, "%s entry %d", key, i)
			}
			out[i] = f
		}
		return out, nil
	}
	return nil, &MalformedGridError{Keyword: key, Reason: fmt.Sprintf("unexpected type %T", raw)}
}

func toInts(key string, raw interface{}) ([]int, error) {
	switch v := raw.(type) {
	case []int:
		return v, nil
	case []interface{}:
		out := make([]int, len(v))
		for i, x := range v {
			n, err := cast.ToIntE(x)
			if err != nil {
				return nil, errors.Wrapf(err, "%s entry %d", key, i)
			}
			out[i] = n
		}
		return out, nil
	}
	return nil, &MalformedGridError{Keyword: key, Reason: fmt.Sprintf("unexpected type %T", raw)}
}

func toBools(key string, raw interface{}) ([]bool, error) {
	switch v := raw.(type) {
	case []bool:
		return v, nil
	case []int:
		out := make([]bool, len(v))
		for i, x := range v {
			out[i] = x != 0
		}
		return out, nil
	case []interface{}:
		out := make([]bool, len(v))
		for i, x := range v {
			b, err := cast.ToBoolE(x)
			if err != nil {
				return nil, errors.Wrapf(err, "%s entry %d", key, i)
			}
			out[i] = b
		}
		return out, nil
	}
	return nil, &MalformedGridError{Keyword: key, Reason: fmt.Sprintf("unexpected type %T", raw)}
}
