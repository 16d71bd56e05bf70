package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/safewalk/internal/models"
)

// @Summary List emergency contacts
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ContactResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /contacts [get]
func (h *Handler) listContacts(c *gin.Context) {
	log := h.logger.WithField("method", "listContacts")

	contacts, err := h.contactService.ListContacts(c.Request.Context(), sessionFrom(c))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToContactResponses(contacts))
}

// @Summary Add an emergency contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param contact body ContactRequest true "Contact"
// @Success 201 {object} ContactResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /contacts [post]
func (h *Handler) addContact(c *gin.Context) {
	var input ContactRequest
	log := h.logger.WithField("method", "addContact")
	if !h.bindJSON(c, log, &input) {
		return
	}

	contact, err := h.contactService.AddContact(c.Request.Context(), sessionFrom(c), input.Name, input.Phone)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToContactResponse(contact))
}

// @Summary Update an emergency contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Param contact body ContactRequest true "Contact"
// @Success 200 {object} ContactResponse
// @Failure 400 {object} map[string]string "Invalid contact ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contact not found"
// @Router /contacts/{id} [put]
func (h *Handler) updateContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact ID"})
		return
	}
	log := h.logger.WithField("method", "updateContact").WithField("id", id)

	var input ContactRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	contact := &models.Contact{ID: id, Name: input.Name, Phone: input.Phone}
	if err := h.contactService.UpdateContact(c.Request.Context(), sessionFrom(c), contact); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToContactResponse(contact))
}

// @Summary Delete an emergency contact
// @Tags Contacts
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid contact ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /contacts/{id} [delete]
func (h *Handler) deleteContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact ID"})
		return
	}
	log := h.logger.WithField("method", "deleteContact").WithField("id", id)

	if err := h.contactService.DeleteContact(c.Request.Context(), sessionFrom(c), id); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
