package server

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/gorilla/websocket"
	"github.com/mastra-ai/go-mastra/internal/datastore"
	"github.com/mastra-ai/go-mastra/internal/registry"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"
	"github.com/unrolled/render"
)

type Handler struct {
	log          zerolog.Logger
	render       *render.Render
	orchestrator *registry.Orchestrator
	redis        *datastore.RedisClient
}

func NewHandler(log zerolog.Logger, render *render.Render, orchestrator *registry.Orchestrator, redis *datastore.RedisClient) *Handler {
	return &Handler{
		log:          log,
		render:       render,
		orchestrator: orchestrator,
		redis:        redis,
	}
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(h.render, w, http.StatusOK, RootResponse{
		Name:      "mastra",
		Agents:    len(h.orchestrator.Agents()),
		Workflows: len(h.orchestrator.Workflows()),
	})
}

func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents := make([]AgentResponse, 0)
	for _, agent := range h.orchestrator.Agents() {
		agents = append(agents, AgentResponse{
			Name:        agent.Name(),
			Description: agent.Description(),
		})
	}
	writeJSONResponse(h.render, w, http.StatusOK, agents)
}

func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := h.orchestrator.Agent(chi.URLParam(r, "agentId"))
	if err != nil {
		writeJSONResponse(h.render, w, http.StatusNotFound, errorResponse{Message: err.Error()})
		return
	}
	writeJSONResponse(h.render, w, http.StatusOK, AgentResponse{
		Name:        agent.Name(),
		Description: agent.Description(),
	})
}

func (h *Handler) GenerateAgent(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentId")
	var generate GenerateAgentRequest
	if err := unmarshalJSONRequestBody(r, &generate); err != nil {
		writeJSONResponse(h.render, w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}
	if len(generate.Messages) == 0 {
		writeJSONResponse(h.render, w, http.StatusBadRequest, errorResponse{Message: "at least one message is required"})
		return
	}
	var options map[string]interface{}
	if generate.MoreOptions != nil {
		if err := mapstructure.Decode(generate.MoreOptions, &options); err != nil {
			writeJSONResponse(h.render, w, http.StatusBadRequest, errorResponse{Message: err.Error()})
			return
		}
	}
	result, run, err := h.orchestrator.Generate(r.Context(), agentID, registry.GenerateRequest{
		Messages: generate.Messages,
		ThreadID: generate.ThreadID,
		Options:  options,
	})
	if err != nil {
		status := http.StatusBadGateway
		if run == nil {
			status = http.StatusNotFound
		}
		writeJSONResponse(h.render, w, status, errorResponse{Message: err.Error()})
		return
	}
	writeJSONResponse(h.render, w, http.StatusOK, result)
}

func (h *Handler) StreamAgent(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentId")
	if _, err := h.orchestrator.Agent(agentID); err != nil {
		writeJSONResponse(h.render, w, http.StatusNotFound, errorResponse{Message: err.Error()})
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		writeJSONResponse(h.render, w, http.StatusInternalServerError, errorResponse{Message: "failed to upgrade websocket connection"})
		return
	}
	serveStream(r.Context(), h.log, h.orchestrator, agentID, conn)
}

func (h *Handler) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	workflows := make([]WorkflowResponse, 0)
	for _, workflow := range h.orchestrator.Workflows() {
		workflows = append(workflows, WorkflowResponse{
			Name:        workflow.Name(),
			Description: workflow.Description(),
		})
	}
	writeJSONResponse(h.render, w, http.StatusOK, workflows)
}

func (h *Handler) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	workflow, err := h.orchestrator.Workflow(chi.URLParam(r, "workflowId"))
	if err != nil {
		writeJSONResponse(h.render, w, http.StatusNotFound, errorResponse{Message: err.Error()})
		return
	}
	writeJSONResponse(h.render, w, http.StatusOK, WorkflowResponse{
		Name:        workflow.Name(),
		Description: workflow.Description(),
	})
}

func (h *Handler) StartWorkflowRun(w http.ResponseWriter, r *http.Request) {
	workflowID := chi.URLParam(r, "workflowId")
	var start StartWorkflowRequest
	if err := unmarshalJSONRequestBody(r, &start); err != nil {
		writeJSONResponse(h.render, w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}
	run, err := h.orchestrator.StartWorkflowRun(workflowID, start.Input)
	if err != nil {
		writeJSONResponse(h.render, w, http.StatusNotFound, errorResponse{Message: err.Error()})
		return
	}
	writeJSONResponse(h.render, w, http.StatusCreated, run)
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	workflowID := chi.URLParam(r, "workflowId")
	run, err := h.orchestrator.Run(chi.URLParam(r, "runId"))
	if err != nil || run.Key != workflowID {
		writeJSONResponse(h.render, w, http.StatusNotFound, errorResponse{Message: registry.ErrNoExistingRun(chi.URLParam(r, "runId")).Error()})
		return
	}
	writeJSONResponse(h.render, w, http.StatusOK, run)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	statsAllTime, err := h.redis.GetRunStats(r.Context(), h.orchestrator.Keys())
	if err != nil {
		h.log.Error().Caller().Err(err).Msg("failed to retrieve all time run stats")
		statsAllTime = &datastore.RunStatsAllTime{}
	}
	statsCurrent := h.orchestrator.GetStats()
	writeJSONResponse(h.render, w, http.StatusOK, StatsResponse{
		RunsStarted:   statsAllTime.RunsStarted,
		RunsCompleted: statsAllTime.RunsCompleted,
		RunsFailed:    statsAllTime.RunsFailed,
		RunsActive:    statsCurrent.ActiveRuns,
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(http.StatusText(http.StatusOK)))
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
