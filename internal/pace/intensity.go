package pace

import "strings"

// Intensity is the effort level of a workout block. Values are the stored
// (Portuguese) labels used by the web client and the database.
type Intensity string

const (
	IntensityLight    Intensity = "leve"
	IntensityModerate Intensity = "moderado"
	IntensityStrong   Intensity = "forte"
	// IntensityFree marks warm-up/cooldown segments without pace guidance.
	IntensityFree    Intensity = "livre"
	IntensityUnknown Intensity = "desconhecido"
)

var intensityAliases = map[string]Intensity{
	"leve":     IntensityLight,
	"light":    IntensityLight,
	"easy":     IntensityLight,
	"moderado": IntensityModerate,
	"moderate": IntensityModerate,
	"forte":    IntensityStrong,
	"strong":   IntensityStrong,
	"hard":     IntensityStrong,
	"livre":    IntensityFree,
	"free":     IntensityFree,
}

// ParseIntensity maps a stored or user supplied label to an Intensity.
// Labels outside the table yield IntensityUnknown.
func ParseIntensity(label string) Intensity {
	if i, ok := intensityAliases[strings.ToLower(strings.TrimSpace(label))]; ok {
		return i
	}
	return IntensityUnknown
}

func (i Intensity) String() string {
	return string(i)
}

// IsPaced reports whether a pace range can be derived for the intensity.
func (i Intensity) IsPaced() bool {
	_, ok := offsets[i]
	return ok
}
