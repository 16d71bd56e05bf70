package v1

import (
	"github.com/google/uuid"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/shenikar/safewalk/internal/service"
)

func ModelToAuthResponse(result *service.AuthResult) *AuthResponse {
	return &AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      *ModelToUserResponse(result.User),
	}
}

func ModelToUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}

func ModelToContactResponse(contact *models.Contact) *ContactResponse {
	return &ContactResponse{
		ID:    contact.ID,
		Name:  contact.Name,
		Phone: contact.Phone,
	}
}

func ModelsToContactResponses(contacts []*models.Contact) []*ContactResponse {
	responses := make([]*ContactResponse, len(contacts))
	for i, contact := range contacts {
		responses[i] = ModelToContactResponse(contact)
	}
	return responses
}

func ModelToNearbyPlacesResponse(result *models.NearbyPlaces) *NearbyPlacesResponse {
	places := make([]*SafePlaceResponse, len(result.Places))
	for i, p := range result.Places {
		places[i] = &SafePlaceResponse{
			ID:             p.ID,
			Name:           p.Name,
			Category:       p.Category,
			Latitude:       p.Location.Latitude,
			Longitude:      p.Location.Longitude,
			DistanceMeters: p.DistanceMeters,
			Rating:         p.Rating,
		}
	}
	return &NearbyPlacesResponse{
		Places:   places,
		Failures: result.Failures,
	}
}

func ModelToAlertResponse(result *models.AlertResult) *AlertResponse {
	return &AlertResponse{
		Kind:                string(result.Kind),
		Recipients:          result.Recipients,
		UsedDefaultContacts: result.UsedDefaultContacts,
	}
}

// DTOToIncidentModel преобразует DTO создания в доменную модель
func DTOToIncidentModel(dto CreateIncidentRequest) *models.Incident {
	return &models.Incident{
		Title:       dto.Title,
		Description: dto.Description,
		Category:    dto.Category,
		Location: models.Coordinate{
			Latitude:  *dto.Latitude,
			Longitude: *dto.Longitude,
		},
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	resp := &IncidentResponse{
		ID:          model.ID,
		UserID:      model.UserID,
		Username:    model.Username,
		Title:       model.Title,
		Description: model.Description,
		Category:    model.Category,
		Latitude:    model.Location.Latitude,
		Longitude:   model.Location.Longitude,
		Timestamp:   model.Timestamp,
	}
	if model.Comments != nil {
		resp.Comments = ModelsToCommentResponses(model.Comments)
	}
	return resp
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

func ModelToCommentResponse(model *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:         model.ID,
		IncidentID: model.IncidentID,
		UserID:     model.UserID,
		Username:   model.Username,
		Content:    model.Content,
		Timestamp:  model.Timestamp,
	}
}

func ModelsToCommentResponses(comments []*models.Comment) []*CommentResponse {
	responses := make([]*CommentResponse, len(comments))
	for i, comment := range comments {
		responses[i] = ModelToCommentResponse(comment)
	}
	return responses
}

func ModelToFeedEventResponse(event models.FeedEvent) *FeedEventResponse {
	resp := &FeedEventResponse{Error: event.Error}
	if event.IncidentID != uuid.Nil {
		id := event.IncidentID
		resp.IncidentID = &id
	}
	switch event.Kind {
	case models.FeedEventIncidents:
		resp.Incidents = ModelsToIncidentResponses(event.Incidents)
	case models.FeedEventComments:
		resp.Comments = ModelsToCommentResponses(event.Comments)
	}
	return resp
}
