package workout

import (
	"errors"

	"github.com/tidwall/gjson"

	"github.com/2beens/pacelink/internal/pace"
)

var ErrInvalidBlocks = errors.New("invalid blocks json")

// legacy rows were written by several client versions with different keys
var (
	labelKeys     = []string{"label", "name", "title"}
	kindKeys      = []string{"segment_type", "segmentType", "kind", "type"}
	distanceKeys  = []string{"distance_km", "distanceKm", "dist_km", "km"}
	intensityKeys = []string{"intensity", "intensidade"}
	paceMinKeys   = []string{"pace_min_sec_per_km", "paceMinSecPerKm", "pace_min", "pace_range.min_sec_per_km"}
	paceMaxKeys   = []string{"pace_max_sec_per_km", "paceMaxSecPerKm", "pace_max", "pace_range.max_sec_per_km"}
	hintKeys      = []string{"hint_text", "hintText", "hint"}
	orderKeys     = []string{"order_index", "orderIndex", "order"}
)

// DecodeBlocks reads the blocks column of a stored workout into canonical
// blocks. It is the only place aware of the legacy key spellings.
func DecodeBlocks(raw []byte) ([]Block, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []Block{}, nil
	}
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidBlocks
	}

	parsed := gjson.ParseBytes(raw)
	if !parsed.IsArray() {
		return nil, ErrInvalidBlocks
	}

	blocks := make([]Block, 0)
	parsed.ForEach(func(_, value gjson.Result) bool {
		b := Block{
			OrderIndex: len(blocks),
			Kind:       ParseSegmentKind(first(value, kindKeys).String()),
			Label:      first(value, labelKeys).String(),
			DistanceKm: first(value, distanceKeys).Float(),
			Intensity:  pace.ParseIntensity(first(value, intensityKeys).String()),
			Hint:       first(value, hintKeys).String(),
		}
		if order := first(value, orderKeys); order.Exists() {
			b.OrderIndex = int(order.Int())
		}

		paceMin, paceMax := first(value, paceMinKeys), first(value, paceMaxKeys)
		if paceMin.Exists() && paceMax.Exists() && paceMin.Type == gjson.Number && paceMax.Type == gjson.Number {
			b.PaceRange = &pace.Range{
				MinSecPerKm: paceMin.Float(),
				MaxSecPerKm: paceMax.Float(),
			}
		}

		blocks = append(blocks, b)
		return true
	})

	return blocks, nil
}

func first(value gjson.Result, keys []string) gjson.Result {
	for _, k := range keys {
		if r := value.Get(k); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}
