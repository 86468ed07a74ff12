package handler

import (
	appledger "github.com/debtbook/backend/internal/application/ledger"
	"github.com/debtbook/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	BaseHandler
	clientService *appledger.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *appledger.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// Create godoc
// @ID           createClient
// @Summary      Create a client
// @Description  Register a client of the caller's company with a zero balance
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateClientRequest true "Client"
// @Success      201 {object} dto.Response{data=appledger.ClientResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), p, appledger.CreateClientInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, client)
}

// GetByID godoc
// @ID           getClient
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} dto.Response{data=appledger.ClientResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /clients/{id} [get]
func (h *ClientHandler) GetByID(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.GetByID(c.Request.Context(), p, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, client)
}

// List godoc
// @ID           listClients
// @Summary      List clients
// @Description  Page through the caller's clients. search matches name or phone.
// @Tags         clients
// @Produce      json
// @Param        page      query int    false "Page number" minimum(1)
// @Param        page_size query int    false "Page size" minimum(1) maximum(100)
// @Param        search    query string false "Name or phone fragment"
// @Param        order_by  query string false "name, created_at or balance"
// @Param        order_dir query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]appledger.ClientResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	page, err := h.clientService.List(c.Request.Context(), p, toFilter(req))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetWithDebts godoc
// @ID           getClientDebts
// @Summary      Get a client with its debts
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} dto.Response{data=appledger.ClientDebtsResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /clients/{id}/debts [get]
func (h *ClientHandler) GetWithDebts(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	result, err := h.clientService.GetWithDebts(c.Request.Context(), p, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
