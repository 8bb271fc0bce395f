package api

import (
	"net/http"

	"github.com/sprite-ai/veloratio/internal/drivetrain"
	"github.com/sprite-ai/veloratio/internal/model"
	"github.com/sprite-ai/veloratio/internal/power"
	"github.com/sprite-ai/veloratio/internal/report"
	"github.com/sprite-ai/veloratio/internal/ride"
)

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Config ---

type configResponse struct {
	Drivetrain model.DrivetrainConfig `json:"drivetrain"`
	Ranges     model.Ranges           `json:"ranges"`
	Selection  model.GearSelection    `json:"selection"`
	Rider      model.RiderState       `json:"rider"`
	BikeMassKg float64                `json:"bike_mass_kg"`
	Physics    power.Params           `json:"physics"`
	Advice     string                 `json:"advice_provider"`
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, configResponse{
		Drivetrain: s.cfg.Bike.Drivetrain,
		Ranges:     s.cfg.Ranges,
		Selection:  s.cfg.Selection(),
		Rider:      s.cfg.RiderState(),
		BikeMassKg: s.cfg.Bike.MassKg,
		Physics:    s.cfg.Physics,
		Advice:     s.cfg.Advice.Provider,
	})
}

// --- Telemetry ---

type calcRequest struct {
	ride.Overrides
	Curve bool `json:"curve,omitempty"`
}

// sessionFor decodes the request body and applies it to a fresh session.
// It writes the error response itself and returns nil on failure.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request, req *calcRequest) *ride.Session {
	if err := readJSON(r, req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return nil
	}
	session := ride.FromConfig(s.cfg, s.advisor)
	if err := session.Apply(req.Overrides); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil
	}
	return session
}

func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	var req calcRequest
	session := s.sessionFor(w, r, &req)
	if session == nil {
		return
	}
	writeJSON(w, http.StatusOK, report.FromSession(session, req.Curve))
}

// --- Curve ---

type curveResponse struct {
	FrontTeeth int                     `json:"front_teeth"`
	CadenceRPM int                     `json:"cadence_rpm"`
	Points     []drivetrain.CurvePoint `json:"points"`
}

func (s *Server) handleCurve(w http.ResponseWriter, r *http.Request) {
	var req calcRequest
	session := s.sessionFor(w, r, &req)
	if session == nil {
		return
	}
	writeJSON(w, http.StatusOK, curveResponse{
		FrontTeeth: session.Telemetry().FrontTeeth,
		CadenceRPM: session.Snapshot().Rider.CadenceRPM,
		Points:     session.Curve(),
	})
}

// --- Advice ---

type adviceResponse struct {
	model.AdviceResult
	GearClass string `json:"gear_class"`
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	var req calcRequest
	session := s.sessionFor(w, r, &req)
	if session == nil {
		return
	}
	result, _ := session.RequestAdvice(r.Context())
	writeJSON(w, http.StatusOK, adviceResponse{
		AdviceResult: result,
		GearClass:    session.Class().String(),
	})
}
