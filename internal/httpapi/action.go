package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/reefgo/server/internal/handler"
	"github.com/reefgo/server/internal/world"
)

type enterRequest struct {
	Wallet string `json:"wallet"`
	Name   string `json:"name"`
}

type enterResponse struct {
	APIKey  string `json:"apiKey"`
	AgentID string `json:"agentId"`
	Name    string `json:"name"`
}

func (s *Server) handleEnter(w http.ResponseWriter, r *http.Request) {
	var req enterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	apiKey, agent, err := s.eng.Enter(r.Context(), req.Wallet, req.Name)
	switch {
	case err == nil:
	case errors.Is(err, handler.ErrBadName):
		s.writeError(w, http.StatusBadRequest, "wallet and name are required")
		return
	case errors.Is(err, handler.ErrNameTaken), errors.Is(err, handler.ErrWalletTaken):
		s.writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, handler.ErrNotEntered):
		s.writeError(w, http.StatusPaymentRequired, "wallet has not entered the season")
		return
	default:
		s.writeError(w, http.StatusServiceUnavailable, "registration unavailable")
		return
	}

	s.writeJSON(w, http.StatusCreated, enterResponse{
		APIKey:  apiKey,
		AgentID: agent.ID,
		Name:    agent.Name,
	})
}

type actionResponse struct {
	Success      bool                `json:"success"`
	Narrative    string              `json:"narrative"`
	Agent        *agentView          `json:"agent,omitempty"`
	Inventory    []stackView         `json:"inventory,omitempty"`
	StateChanges []world.StateChange `json:"stateChanges,omitempty"`
	Tick         int64               `json:"tick"`
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	apiKey := r.Header.Get("X-API-Key")
	if apiKey == "" {
		s.writeError(w, http.StatusUnauthorized, "missing api key")
		return
	}
	var cmd handler.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if cmd.Action == "" {
		s.writeError(w, http.StatusBadRequest, "action is required")
		return
	}

	res, err := s.eng.Execute(handler.HashAPIKey(apiKey), &cmd)
	if err != nil {
		var rl *handler.RateLimitedError
		switch {
		case errors.Is(err, handler.ErrUnknownKey):
			s.writeError(w, http.StatusUnauthorized, "invalid api key")
		case errors.Is(err, handler.ErrBusy):
			w.Header().Set("Retry-After", "1")
			s.writeError(w, http.StatusTooManyRequests, "action already in flight")
		case errors.As(err, &rl):
			w.Header().Set("Retry-After", fmt.Sprintf("%.0f", rl.RetryAfter.Seconds()+1))
			s.writeError(w, http.StatusTooManyRequests, "rate limited")
		default:
			s.log.Error("action failed")
			s.writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	resp := actionResponse{
		Success:      res.Success,
		Narrative:    res.Narrative,
		StateChanges: res.StateChanges,
	}
	s.eng.View(func(st *world.State) {
		resp.Tick = st.Tick
		if a := st.AgentByKeyHash(handler.HashAPIKey(apiKey)); a != nil {
			resp.Agent = newAgentView(a)
			resp.Inventory = stacksOf(st.InventoryOf(a.ID))
		}
	})
	s.writeJSON(w, http.StatusOK, resp)
}
