package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"buyers-backend/internal/domain"
	"buyers-backend/internal/middleware"
	"buyers-backend/internal/tagsync"
	"buyers-backend/pkg/api"
)

// SyncHandler runs one tag-sync tick per request: the edit grid posts
// its full desired state on every interaction and the syncer decides
// whether anything actually needs to reach the store.
type SyncHandler struct {
	syncers  map[domain.TagKind]*tagsync.Syncer
	sessions *tagsync.SessionStore
	logger   *zap.Logger
}

// NewSyncHandler creates a sync handler over one syncer per taxonomy kind.
func NewSyncHandler(syncers map[domain.TagKind]*tagsync.Syncer, sessions *tagsync.SessionStore, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{syncers: syncers, sessions: sessions, logger: logger}
}

// Tick handles POST /api/v1/sync/{kind}
func (h *SyncHandler) Tick(w http.ResponseWriter, r *http.Request) {
	kind := domain.TagKind(chi.URLParam(r, "kind"))
	syncer, ok := h.syncers[kind]
	if !ok {
		api.Error(w, http.StatusBadRequest, "Unknown tag kind")
		return
	}

	userID, ok := middleware.GetUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req api.SyncRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	desired := make(map[domain.EntityID][]string, len(req.Entities))
	for rawID, rawLabels := range req.Entities {
		entityID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			api.Error(w, http.StatusBadRequest, "Invalid entity id: "+rawID)
			return
		}
		desired[domain.EntityID(entityID)] = domain.ParseTagList(rawLabels)
	}

	state := h.sessions.Get(userID, kind)
	result, next := syncer.SyncTick(r.Context(), state, desired, time.Now())
	h.sessions.Put(userID, kind, next)

	api.Success(w, http.StatusOK, api.SyncResponse{
		Synced: result.Synced,
		Errors: result.Errors,
	})
}
