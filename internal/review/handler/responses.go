package handler

import "profilr/internal/review/models"

type CreateReviewResponse struct {
	Message string         `json:"message"`
	Review  *models.Review `json:"review"`
}
