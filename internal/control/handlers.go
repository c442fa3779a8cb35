package control

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"lanesim/internal/decision"
	"lanesim/internal/simulation"
	"lanesim/internal/stats"
)

type runRequest struct {
	Lane            laneDTO `json:"lane"`
	Iterations      int     `json:"iterations"`
	Seed            int64   `json:"seed"`
	IncludeOutcomes bool    `json:"include_outcomes"`
}

type evaluateRequest struct {
	Lane       laneDTO  `json:"lane"`
	Quote      quoteDTO `json:"quote"`
	RunID      string   `json:"run_id"`
	Iterations int      `json:"iterations"`
	Seed       int64    `json:"seed"`
}

type runControlRequest struct {
	RunID           string `json:"run_id"`
	IncludeOutcomes bool   `json:"include_outcomes"`
}

func (s *Server) startRun(req runRequest) (*RunEntry, error) {
	l, err := req.Lane.toLane()
	if err != nil {
		return nil, err
	}

	iterations := req.Iterations
	if iterations <= 0 {
		iterations = s.cfg.DefaultIterations
	}
	params := simulation.FromLane(l, iterations, s.cfg.DelayCostFraction)

	runner := &simulation.Runner{
		BatchSize: s.cfg.BatchSize,
		Workers:   s.cfg.Workers,
		Seed:      req.Seed,
	}
	run, err := runner.Start(params)
	if err != nil {
		return nil, err
	}

	entry := s.registry.Add(run)
	log.Info().Str("run_id", entry.ID).Int("iterations", iterations).
		Str("origin", l.Origin).Str("destination", l.Destination).
		Msg("Simulation started")
	return entry, nil
}

// handleRunSimulation runs a sweep to completion, streaming progress
// notifications between batches.
func (s *Server) handleRunSimulation(args json.RawMessage) (interface{}, error) {
	var req runRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}

	entry, err := s.startRun(req)
	if err != nil {
		return nil, err
	}

	outcomes, state, err := entry.Run.Drain(func(p simulation.Progress) {
		entry.setProgress(p)
		s.notifyProgress(entry.ID, p)
	})
	entry.finish(outcomes, err)
	if err != nil {
		return nil, err
	}
	if state != simulation.StateCompleted {
		return map[string]interface{}{"run_id": entry.ID, "state": string(state)}, nil
	}

	result, err := s.buildResult(outcomes, req.IncludeOutcomes)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// handleStartSimulation launches a background sweep and returns immediately.
func (s *Server) handleStartSimulation(args json.RawMessage) (interface{}, error) {
	var req runRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}

	entry, err := s.startRun(req)
	if err != nil {
		return nil, err
	}
	go s.watch(entry)

	return map[string]interface{}{
		"run_id": entry.ID,
		"state":  string(entry.Run.State()),
	}, nil
}

// watch forwards a background run's events to the host as notifications and
// records the terminal result in the registry.
func (s *Server) watch(entry *RunEntry) {
	for ev := range entry.Run.Events() {
		if ev.Progress != nil {
			entry.setProgress(*ev.Progress)
			s.notifyProgress(entry.ID, *ev.Progress)
			continue
		}

		entry.finish(ev.Outcomes, ev.Err)
		params := map[string]interface{}{
			"run_id": entry.ID,
			"state":  string(ev.State),
		}
		if ev.Err != nil {
			params["error"] = map[string]interface{}{
				"kind":    errorKind(ev.Err),
				"message": ev.Err.Error(),
			}
		}
		s.notify("simulation/terminal", params)
	}
}

func (s *Server) notifyProgress(runID string, p simulation.Progress) {
	s.notify("simulation/progress", map[string]interface{}{
		"run_id":    runID,
		"completed": p.Completed,
		"total":     p.Total,
		"percent":   p.Percent,
	})
}

// handleRunControl applies a pause/resume/cancel control to a background run.
func (s *Server) handleRunControl(args json.RawMessage, control func(*simulation.Run)) (interface{}, error) {
	var req runControlRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}
	entry, err := s.registry.Get(req.RunID)
	if err != nil {
		return nil, err
	}

	control(entry.Run)
	return map[string]interface{}{
		"run_id": entry.ID,
		"state":  string(entry.Run.State()),
	}, nil
}

func (s *Server) handleGetStatus(args json.RawMessage) (interface{}, error) {
	var req runControlRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}
	entry, err := s.registry.Get(req.RunID)
	if err != nil {
		return nil, err
	}

	state, progress := entry.Snapshot()
	status := map[string]interface{}{
		"run_id": entry.ID,
		"state":  string(state),
	}
	if progress != nil {
		status["progress"] = progress
	}
	return status, nil
}

func (s *Server) handleGetResult(args json.RawMessage) (interface{}, error) {
	var req runControlRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}
	entry, err := s.registry.Get(req.RunID)
	if err != nil {
		return nil, err
	}

	outcomes, err := entry.Result()
	if err != nil {
		return nil, err
	}
	return s.buildResult(outcomes, req.IncludeOutcomes)
}

// simulatedRates resolves the rate distribution an evaluation runs against:
// a completed background run when run_id is given, a fresh inline sweep
// otherwise.
func (s *Server) simulatedRates(req evaluateRequest) ([]float64, error) {
	if req.RunID != "" {
		entry, err := s.registry.Get(req.RunID)
		if err != nil {
			return nil, err
		}
		outcomes, err := entry.Result()
		if err != nil {
			return nil, err
		}
		return simulation.Rates(outcomes), nil
	}

	entry, err := s.startRun(runRequest{Lane: req.Lane, Iterations: req.Iterations, Seed: req.Seed})
	if err != nil {
		return nil, err
	}
	outcomes, _, err := entry.Run.Drain(func(p simulation.Progress) {
		entry.setProgress(p)
		s.notifyProgress(entry.ID, p)
	})
	entry.finish(outcomes, err)
	if err != nil {
		return nil, err
	}
	return simulation.Rates(outcomes), nil
}

func (s *Server) handleEvaluateQuote(args json.RawMessage) (interface{}, error) {
	var req evaluateRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}
	l, err := req.Lane.toLane()
	if err != nil {
		return nil, err
	}
	q, err := req.Quote.toQuote()
	if err != nil {
		return nil, err
	}

	rates, err := s.simulatedRates(req)
	if err != nil {
		return nil, err
	}
	summary, err := stats.Summarize(rates)
	if err != nil {
		return nil, err
	}

	eval, err := decision.EvaluateQuote(q, l, rates, summary)
	if err != nil {
		return nil, err
	}
	log.Info().Float64("quote", q.Rate).Float64("percentile", eval.Percentile).
		Str("recommendation", string(eval.Recommendation)).
		Msg("Quote evaluated")
	return eval, nil
}

func (s *Server) handleEvaluateStrategies(args json.RawMessage) (interface{}, error) {
	var req evaluateRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}
	l, err := req.Lane.toLane()
	if err != nil {
		return nil, err
	}
	q, err := req.Quote.toQuote()
	if err != nil {
		return nil, err
	}

	rates, err := s.simulatedRates(req)
	if err != nil {
		return nil, err
	}
	summary, err := stats.Summarize(rates)
	if err != nil {
		return nil, err
	}

	cfg := decision.StrategyConfig{
		ConfidenceFloor:  s.cfg.ConfidenceFloor,
		WaitHorizonDays:  s.cfg.WaitHorizonDays,
		WaitRateDiscount: s.cfg.WaitRateDiscount,
		ReroutePremium:   s.cfg.ReroutePremium,
		SplitRatio:       s.cfg.SplitRatio,
	}
	return decision.EvaluateStrategies(q, l, summary, cfg)
}
