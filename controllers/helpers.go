package controllers

import (
	"errors"

	"github.com/laith-prog/rms/pkg/resp"
	"github.com/laith-prog/rms/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Every branch keeps the structured detail so the client can render a
// precise message.
func writeServiceError(c *gin.Context, err error) {
	var validation *services.ValidationError
	var noAvail *services.NoAvailabilityError
	var invalid *services.InvalidTransitionError
	var policy *services.PolicyViolationError

	switch {
	case errors.As(err, &validation):
		resp.BadRequest(c, validation.Error())
	case errors.As(err, &noAvail):
		resp.Conflict(c, "no table available for the requested window", gin.H{
			"restaurantId":  noAvail.RestaurantID,
			"date":          noAvail.Date,
			"startTime":     noAvail.StartTime,
			"durationHours": noAvail.DurationHours,
			"partySize":     noAvail.PartySize,
		})
	case errors.As(err, &invalid):
		resp.Conflict(c, invalid.Error(), gin.H{
			"entity": invalid.Entity,
			"id":     invalid.ID,
			"from":   invalid.From,
			"to":     invalid.To,
			"rule":   invalid.Rule,
		})
	case errors.As(err, &policy):
		resp.Conflict(c, policy.Reason, gin.H{
			"reservationId": policy.ReservationID,
			"deadline":      policy.Deadline,
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		resp.NotFound(c, "not found")
	default:
		resp.ServerError(c, err)
	}
}
