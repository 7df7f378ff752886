// internal/handlers/client/client_handler.go
package client

import (
	"net/http"
	"strconv"

	"fitcoach-service/internal/domain/client"
	"fitcoach-service/internal/middleware"
	xerrors "fitcoach-service/internal/pkg/errors"
	"fitcoach-service/internal/pkg/response"
	clientUsecase "fitcoach-service/internal/service/client"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ClientHandler struct {
	clientService *clientUsecase.ClientService
	logger        *zap.Logger
}

func NewClientHandler(clientService *clientUsecase.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// Create adds a coached client (trainer only)
func (h *ClientHandler) Create(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	var req client.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	created, err := h.clientService.CreateClient(c.Request.Context(), trainerID, &req)
	if err != nil {
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

// Get retrieves one client
func (h *ClientHandler) Get(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	clientID, ok := pathID(c)
	if !ok {
		return
	}

	found, err := h.clientService.GetClient(c.Request.Context(), trainerID, clientID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "client not found")
			return
		}
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, found)
}

// GetByReference retrieves one client by its external reference
func (h *ClientHandler) GetByReference(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	reference := c.Param("reference")
	if reference == "" {
		response.ValidationError(c, "invalid reference", nil)
		return
	}

	found, err := h.clientService.GetClientByReference(c.Request.Context(), trainerID, reference)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "client not found")
			return
		}
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, found)
}

// List lists the trainer's clients with search and paging
func (h *ClientHandler) List(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	var q client.ListClientsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, "invalid query", err)
		return
	}

	list, err := h.clientService.ListClients(c.Request.Context(), trainerID, &q)
	if err != nil {
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, list)
}

// Update edits a coached client
func (h *ClientHandler) Update(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	clientID, ok := pathID(c)
	if !ok {
		return
	}

	var req client.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	updated, err := h.clientService.UpdateClient(c.Request.Context(), trainerID, clientID, &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "client not found")
			return
		}
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// Archive deactivates a client without deleting history
func (h *ClientHandler) Archive(c *gin.Context) {
	h.setActive(c, false)
}

// Reactivate brings an archived client back
func (h *ClientHandler) Reactivate(c *gin.Context) {
	h.setActive(c, true)
}

func (h *ClientHandler) setActive(c *gin.Context, active bool) {
	trainerID := middleware.MustGetUserID(c)

	clientID, ok := pathID(c)
	if !ok {
		return
	}

	var err error
	if active {
		err = h.clientService.ReactivateClient(c.Request.Context(), trainerID, clientID)
	} else {
		err = h.clientService.ArchiveClient(c.Request.Context(), trainerID, clientID)
	}
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "client not found")
			return
		}
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"active": active})
}

// Delete soft-deletes a client
func (h *ClientHandler) Delete(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	clientID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), trainerID, clientID); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "client not found")
			return
		}
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.ValidationError(c, "invalid client ID", nil)
		return 0, false
	}
	return id, true
}
