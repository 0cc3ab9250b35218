package studio

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"fitstudio/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Create an activity
// @Description  Admin-only: create a new activity (capacity 0 = individual session)
// @Tags         admin,activities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body studio.CreateActivityRequest true "Activity payload"
// @Success      201 {object} studio.Activity
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/activities [post]
func (h *Handler) CreateActivity(c *gin.Context) {
	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	activity, err := h.service.CreateActivity(ctx, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create activity"})
		return
	}

	c.JSON(http.StatusCreated, activity)
}

// @Summary      List activities
// @Tags         activities,admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} studio.Activity
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /activities [get]
// @Router       /admin/activities [get]
func (h *Handler) ListActivities(c *gin.Context) {
	ctx := c.Request.Context()
	activities, err := h.service.ListActivities(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch activities"})
		return
	}

	c.JSON(http.StatusOK, activities)
}

// @Summary      Get an activity
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        activityID path int true "Activity ID"
// @Success      200 {object} studio.Activity
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /activities/{activityID} [get]
func (h *Handler) GetActivity(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("activityID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid activity ID"})
		return
	}

	ctx := c.Request.Context()
	activity, err := h.service.GetActivityByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Activity not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch activity"})
		return
	}

	c.JSON(http.StatusOK, activity)
}

// @Summary      Update an activity
// @Description  Admin-only: replace an activity's pricing and capacity settings
// @Tags         admin,activities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        activityID path int true "Activity ID"
// @Param        request body studio.CreateActivityRequest true "Activity payload"
// @Success      200 {object} studio.Activity
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/activities/{activityID} [put]
func (h *Handler) UpdateActivity(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("activityID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid activity ID"})
		return
	}

	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	activity, err := h.service.UpdateActivity(ctx, id, req)
	if err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Activity not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update activity"})
		return
	}

	c.JSON(http.StatusOK, activity)
}

// @Summary      Delete an activity
// @Tags         admin,activities
// @Produce      json
// @Security     BearerAuth
// @Param        activityID path int true "Activity ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/activities/{activityID} [delete]
func (h *Handler) DeleteActivity(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("activityID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid activity ID"})
		return
	}

	ctx := c.Request.Context()
	if err := h.service.DeleteActivity(ctx, id); err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Activity not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete activity"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Activity deleted"})
}

// @Summary      Create a coach
// @Tags         admin,coaches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body studio.CreateCoachRequest true "Coach payload"
// @Success      201 {object} studio.Coach
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/coaches [post]
func (h *Handler) CreateCoach(c *gin.Context) {
	var req CreateCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	coach, err := h.service.CreateCoach(ctx, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create coach"})
		return
	}

	c.JSON(http.StatusCreated, coach)
}

// @Summary      List coaches
// @Tags         coaches,admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} studio.Coach
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /coaches [get]
// @Router       /admin/coaches [get]
func (h *Handler) ListCoaches(c *gin.Context) {
	ctx := c.Request.Context()
	coaches, err := h.service.ListCoaches(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch coaches"})
		return
	}

	c.JSON(http.StatusOK, coaches)
}

// @Summary      Upload a coach profile picture
// @Description  Admin-only: multipart upload, stored picture replaces the previous URL
// @Tags         admin,coaches
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        coachID path int true "Coach ID"
// @Param        picture formData file true "Picture file"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/coaches/{coachID}/picture [post]
func (h *Handler) UploadCoachPicture(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("coachID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid coach ID"})
		return
	}

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Missing picture file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Unreadable picture file"})
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	url, err := h.service.UploadCoachPicture(ctx, id, fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, ErrCoachNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Coach not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to store picture"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: url})
}

// @Summary      Delete a coach
// @Tags         admin,coaches
// @Produce      json
// @Security     BearerAuth
// @Param        coachID path int true "Coach ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/coaches/{coachID} [delete]
func (h *Handler) DeleteCoach(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("coachID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid coach ID"})
		return
	}

	ctx := c.Request.Context()
	if err := h.service.DeleteCoach(ctx, id); err != nil {
		if errors.Is(err, ErrCoachNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Coach not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete coach"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Coach deleted"})
}

// @Summary      Create a time slot
// @Description  Admin-only: schedule one slot for an activity and coach
// @Tags         admin,slots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body studio.CreateTimeSlotRequest true "Time slot payload"
// @Success      201 {object} studio.TimeSlot
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/slots [post]
func (h *Handler) CreateTimeSlot(c *gin.Context) {
	var req CreateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	slot, err := h.service.CreateTimeSlot(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrActivityNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Activity not found"})
		case errors.Is(err, ErrCoachNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Coach not found"})
		case errors.Is(err, ErrTimeSlotInvalid):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid time slot data"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create time slot"})
		}
		return
	}

	c.JSON(http.StatusCreated, slot)
}

// @Summary      Provision daily time slots
// @Description  Admin-only: repeat the same slot once a day over a range of days
// @Tags         admin,slots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body studio.ProvisionTimeSlotsRequest true "Provisioning payload"
// @Success      201 {array} studio.TimeSlot
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/slots/provision [post]
func (h *Handler) ProvisionTimeSlots(c *gin.Context) {
	var req ProvisionTimeSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	slots, err := h.service.ProvisionTimeSlots(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrActivityNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Activity not found"})
		case errors.Is(err, ErrCoachNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Coach not found"})
		case errors.Is(err, ErrTimeSlotInvalid):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid time slot data"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to provision time slots"})
		}
		return
	}

	c.JSON(http.StatusCreated, slots)
}

// @Summary      List time slots
// @Description  Optional activity_id and coach_id filters; members only see future slots
// @Tags         slots,admin
// @Produce      json
// @Security     BearerAuth
// @Param        activity_id query int false "Filter by activity"
// @Param        coach_id query int false "Filter by coach"
// @Success      200 {array} studio.TimeSlotWithDetails
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /slots [get]
// @Router       /admin/slots [get]
func (h *Handler) ListTimeSlots(c *gin.Context) {
	activityID, err := queryInt(c, "activity_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid activity_id"})
		return
	}
	coachID, err := queryInt(c, "coach_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid coach_id"})
		return
	}

	ctx := c.Request.Context()
	onlyFuture := !strings.Contains(c.Request.URL.Path, "/admin/")
	slots, err := h.service.ListTimeSlots(ctx, activityID, coachID, onlyFuture)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch time slots"})
		return
	}

	c.JSON(http.StatusOK, slots)
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
