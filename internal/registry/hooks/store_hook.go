package hooks

import (
	"github.com/mastra-ai/go-mastra/internal/datastore"
	"github.com/mastra-ai/go-mastra/internal/registry"
	"github.com/rs/zerolog"
)

// StoreHook persists finished runs into the run store.
type StoreHook struct {
	store datastore.RunStore
	log   zerolog.Logger
}

func NewStoreHook(store datastore.RunStore, log zerolog.Logger) *StoreHook {
	return &StoreHook{
		store: store,
		log:   log,
	}
}

func (s *StoreHook) OnRunStart(run *registry.Run) {}

func (s *StoreHook) OnRunEnd(run *registry.Run) {
	record := &datastore.RunRecord{
		RunID:      run.ID,
		Kind:       run.Kind,
		Key:        run.Key,
		Status:     string(run.Status),
		Error:      run.Error,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
	if err := s.store.Store(record); err != nil {
		s.log.Debug().Caller().Err(err).Msgf("failed to store run record with id %s", run.ID)
	}
}
