package misc

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/pacelink/internal/pace"
	"github.com/2beens/pacelink/internal/telemetry/tracing"
	"github.com/2beens/pacelink/pkg"
)

type Handler struct {
	versionInfo string
}

func NewHandler(versionInfo string) *Handler {
	return &Handler{
		versionInfo: versionInfo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/pace/ranges", handler.handlePaceRanges).Methods("GET", "OPTIONS").Name("pace-ranges")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

// PaceRange is the suggested pace of one intensity, in seconds and as "M:SS".
type PaceRange struct {
	Intensity   pace.Intensity `json:"intensity"`
	MinSecPerKm float64        `json:"min_sec_per_km"`
	MaxSecPerKm float64        `json:"max_sec_per_km"`
	Display     string         `json:"display"`
}

var pacedIntensities = []pace.Intensity{
	pace.IntensityLight,
	pace.IntensityModerate,
	pace.IntensityStrong,
}

// PaceRanges lists the suggested range of every paced intensity for a P1K.
func PaceRanges(p1k float64) ([]PaceRange, error) {
	ranges := make([]PaceRange, 0, len(pacedIntensities))
	for _, intensity := range pacedIntensities {
		r, err := pace.RangeFromReference(p1k, intensity)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, PaceRange{
			Intensity:   intensity,
			MinSecPerKm: r.MinSecPerKm,
			MaxSecPerKm: r.MaxSecPerKm,
			Display:     pace.FormatRange(r),
		})
	}
	return ranges, nil
}

// handlePaceRanges answers GET /pace/ranges?p1k=4:00
func (handler *Handler) handlePaceRanges(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.paceRanges")
	defer span.End()

	p1kParam := strings.TrimSpace(r.URL.Query().Get("p1k"))
	span.SetAttributes(attribute.String("p1k", p1kParam))
	if p1kParam == "" {
		pkg.WriteJSONError(w, "error, p1k missing", http.StatusBadRequest)
		return
	}

	p1k, err := pace.Parse(p1kParam)
	if err != nil {
		pkg.WriteJSONError(w, "error, invalid p1k, expected M:SS", http.StatusBadRequest)
		return
	}

	ranges, err := PaceRanges(p1k)
	if err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	pkg.WriteJSON(w, ranges, http.StatusOK)
}
