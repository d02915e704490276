package handler

import "profilr/internal/review/models"

// CreateReviewRequest is the POST /api/reviews body. Fields are passed through
// as sent; presence is checked by the service.
type CreateReviewRequest struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Comment string `json:"comment"`
}

func (r CreateReviewRequest) toInput() models.CreateReviewInput {
	return models.CreateReviewInput{
		Name:    r.Name,
		Role:    r.Role,
		Comment: r.Comment,
	}
}
