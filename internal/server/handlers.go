package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/coastlines/pkg/buildinfo"
	errs "github.com/matzehuels/coastlines/pkg/errors"
	"github.com/matzehuels/coastlines/pkg/heights"
	"github.com/matzehuels/coastlines/pkg/observability"
	"github.com/matzehuels/coastlines/pkg/pipeline"
)

// ContentTypes maps each output format to its media type.
var ContentTypes = map[string]string{
	pipeline.FormatSVG:     "image/svg+xml",
	pipeline.FormatPNG:     "image/png",
	pipeline.FormatPDF:     "application/pdf",
	pipeline.FormatJSON:    "application/json",
	pipeline.FormatOBJ:     "model/obj",
	pipeline.FormatMTL:     "model/mtl",
	pipeline.FormatGeoJSON: "application/geo+json",
	pipeline.FormatDOT:     "text/vnd.graphviz",
	pipeline.FormatGraph:   "image/svg+xml",
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type terrainResponse struct {
	ID          string              `json:"id"`
	Seed        uint64              `json:"seed"`
	TerrainHash string              `json:"terrain_hash"`
	Cells       int                 `json:"cells"`
	Triangles   int                 `json:"triangles"`
	Misses      int64               `json:"misses"`
	Summary     heights.Summary     `json:"summary"`
	Cache       cacheResponse       `json:"cache"`
	TimingsMS   map[string]float64  `json:"timings_ms"`
	Artifacts   map[string]artifact `json:"artifacts"`
}

type cacheResponse struct {
	TerrainHit bool `json:"terrain_hit"`
	RenderHit  bool `json:"render_hit"`
	Shared     bool `json:"shared"`
}

type artifact struct {
	ContentType string `json:"content_type"`
	Encoding    string `json:"encoding"` // "utf-8" or "base64"
	Data        string `json:"data"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleTerrain(w http.ResponseWriter, r *http.Request) {
	opts, err := decodeOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTerrainResponse(res))
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := decodeOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	res, err := s.execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", ContentTypes[format])
	w.Header().Set("X-Terrain-Hash", res.TerrainHash)
	w.Header().Set("X-Run-Id", res.ID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) execute(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	return s.runner.Execute(ctx, opts)
}

// decodeOptions reads a JSON options body. An empty body selects every
// default.
func decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	if r.Body == nil || r.ContentLength == 0 {
		return opts, nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		return opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode options")
	}
	return opts, nil
}

func newTerrainResponse(res *pipeline.Result) terrainResponse {
	t := res.Terrain
	out := terrainResponse{
		ID:          res.ID,
		Seed:        t.Seed,
		TerrainHash: res.TerrainHash,
		Cells:       len(t.Cells),
		Triangles:   t.Mesh.TriangleCount(),
		Misses:      t.Misses,
		Summary:     t.Summary,
		Cache: cacheResponse{
			TerrainHit: res.CacheInfo.TerrainHit,
			RenderHit:  res.CacheInfo.RenderHit,
			Shared:     res.CacheInfo.Shared,
		},
		TimingsMS: map[string]float64{
			"sites":      ms(res.Stats.SiteTime.Seconds()),
			"relax":      ms(res.Stats.RelaxTime.Seconds()),
			"diffuse":    ms(res.Stats.DiffuseTime.Seconds()),
			"tessellate": ms(res.Stats.TessellateTime.Seconds()),
			"generate":   ms(res.Stats.GenerateTime.Seconds()),
			"render":     ms(res.Stats.RenderTime.Seconds()),
		},
		Artifacts: make(map[string]artifact, len(res.Artifacts)),
	}
	for format, data := range res.Artifacts {
		out.Artifacts[format] = encodeArtifact(format, data)
	}
	return out
}

func ms(seconds float64) float64 { return seconds * 1000 }

func encodeArtifact(format string, data []byte) artifact {
	a := artifact{ContentType: ContentTypes[format]}
	if utf8.Valid(data) {
		a.Encoding = "utf-8"
		a.Data = string(data)
	} else {
		a.Encoding = "base64"
		a.Data = base64.StdEncoding.EncodeToString(data)
	}
	return a
}

// StatusCode maps an error to an HTTP status by its error code.
func StatusCode(err error) int {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidConfig, errs.ErrCodeInvalidBounds,
		errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidGradient, errs.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errs.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrCodeCanceled:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)

	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	msg := errs.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(w, `{"error":{"code":%q,"message":"encode response"}}`, errs.ErrCodeInternal)
	}
}
