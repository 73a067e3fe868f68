package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/lvillar/cdaibatch"
)

// placementFile is the JSON schema for custom field placements. Page keys
// are 1-based template page numbers; field keys resolve through the same
// normalization and synonym table as roster headers.
//
// Example JSON:
//
//	{
//	  "pages": {
//	    "1": {
//	      "mc":       [{"x": 75, "y": 250}],
//	      "lastname": [{"x": 75, "y": 330}]
//	    },
//	    "3": {
//	      "wt": [{"x": 325, "y": 525}]
//	    }
//	  }
//	}
type placementFile struct {
	Pages map[string]map[string][]placementPoint `json:"pages"`
}

type placementPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LoadPlacements reads a placement file and resolves it onto the known field
// set, so a typo in a field name fails here instead of silently never
// stamping.
func LoadPlacements(path string) (map[int]cdaibatch.FieldPlacement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading placements: %w", err)
	}

	var pf placementFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("config: parsing placements: %w", err)
	}
	if len(pf.Pages) == 0 {
		return nil, fmt.Errorf("config: placements: no pages defined")
	}

	placements := make(map[int]cdaibatch.FieldPlacement, len(pf.Pages))
	for pageKey, fields := range pf.Pages {
		page, err := strconv.Atoi(pageKey)
		if err != nil || page < 1 {
			return nil, fmt.Errorf("config: placements: page key %q is not a positive page number", pageKey)
		}
		placement := make(cdaibatch.FieldPlacement, len(fields))
		for name, points := range fields {
			field, ok := cdaibatch.ResolveField(name)
			if !ok {
				return nil, fmt.Errorf("config: placements: page %d names unknown field %q", page, name)
			}
			if len(points) == 0 {
				return nil, fmt.Errorf("config: placements: page %d field %q has no coordinates", page, name)
			}
			pts := make([]cdaibatch.Point, 0, len(points))
			for _, p := range points {
				pts = append(pts, cdaibatch.Point{X: p.X, Y: p.Y})
			}
			placement[field] = pts
		}
		placements[page] = placement
	}
	return placements, nil
}
