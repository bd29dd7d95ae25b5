package server

import (
	"github.com/mastra-ai/go-mastra/internal/registry"
)

type RootResponse struct {
	Name      string `json:"name"`
	Agents    int    `json:"agents"`
	Workflows int    `json:"workflows"`
}

type AgentResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type WorkflowResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type GenerateAgentRequest struct {
	Messages []registry.Message
	ThreadID string

	// MoreOptions carries provider specific options forwarded to the agent
	MoreOptions interface{}
}

type StartWorkflowRequest struct {
	Input map[string]interface{}
}

type StatsResponse struct {
	RunsStarted   map[string]int `json:"runsStarted"`
	RunsCompleted map[string]int `json:"runsCompleted"`
	RunsFailed    map[string]int `json:"runsFailed"`
	RunsActive    map[string]int `json:"runsActive"`
}

type errorResponse struct {
	Message string
}
