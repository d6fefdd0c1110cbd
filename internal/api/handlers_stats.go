package api

import "net/http"

func (s *Server) handleParseStats(w http.ResponseWriter, r *http.Request) {
	stats := s.svc.Stats()
	if stats == nil {
		jsonError(w, "parse stats unavailable", http.StatusServiceUnavailable)
		return
	}
	resp := map[string]any{"parse": stats.Snapshot()}
	if s.orchestrator != nil {
		resp["queue_depth"] = s.orchestrator.QueueDepth()
	}
	writeJSON(w, http.StatusOK, resp)
}
