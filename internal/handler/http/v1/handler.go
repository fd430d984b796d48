package v1

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/animal_rescue_dispatch/internal/models"
	"github.com/shenikar/animal_rescue_dispatch/internal/service"
	"github.com/sirupsen/logrus"
)

// Коды ошибок в теле ответа
const (
	CodeMissingFields       = "missing_fields"
	CodeInvalidImage        = "invalid_image"
	CodeNoResponderInRange  = "no_responder_in_range"
	CodeNotFound            = "not_found"
	CodeStorageFailure      = "storage_failure"
	CodeClassificationInfra = "classification_infrastructure_failure"
	CodeAlertNotPending     = "alert_not_pending"
	CodeWorkflowUnavailable = "workflow_not_configured"
	CodeNotificationFailed  = "notification_failed"
	CodeInternal            = "internal_error"
)

// multipartOverhead - запас на заголовки и текстовые поля формы сверх размера файла
const multipartOverhead = 64 << 10

type Handler struct {
	dispatchService  service.DispatchService
	alertService     service.AlertService
	responderService service.ResponderService
	logger           *logrus.Logger
	validate         *validator.Validate
	maxUploadBytes   int64
}

func NewHandler(
	dispatchService service.DispatchService,
	alertService service.AlertService,
	responderService service.ResponderService,
	logger *logrus.Logger,
	maxUploadBytes int64,
) *Handler {
	return &Handler{
		dispatchService:  dispatchService,
		alertService:     alertService,
		responderService: responderService,
		logger:           logger,
		validate:         validator.New(),
		maxUploadBytes:   maxUploadBytes,
	}
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: code, Message: message})
}

// @Summary Submit an injured animal alert
// @Description Accepts a photo and coordinates, classifies the injury, assigns the nearest responder in range and triggers the rescue workflow.
// @Tags Alerts
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Photo of the animal"
// @Param latitude formData number true "Latitude in degrees"
// @Param longitude formData number true "Longitude in degrees"
// @Success 200 {object} IntakeResponse
// @Failure 400 {object} ErrorResponse "Missing fields or invalid image"
// @Failure 404 {object} ErrorResponse "No responder in range"
// @Failure 500 {object} ErrorResponse "Storage or classification infrastructure failure"
// @Router /alerts [post]
func (h *Handler) createAlert(c *gin.Context) {
	log := h.logger.WithField("method", "createAlert")

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}

	var form IntakeForm
	if err := c.ShouldBind(&form); err != nil {
		if isTooLarge(err) {
			writeError(c, http.StatusBadRequest, CodeInvalidImage, "image exceeds the upload size limit")
			return
		}
		log.WithError(err).Warn("Failed to bind intake form")
		writeError(c, http.StatusBadRequest, CodeMissingFields, "image, latitude and longitude are required")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		log.WithError(err).Warn("Validation failed")
		writeError(c, http.StatusBadRequest, CodeMissingFields, err.Error())
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		if isTooLarge(err) {
			writeError(c, http.StatusBadRequest, CodeInvalidImage, "image exceeds the upload size limit")
			return
		}
		writeError(c, http.StatusBadRequest, CodeMissingFields, "image, latitude and longitude are required")
		return
	}
	if fileHeader.Size == 0 {
		writeError(c, http.StatusBadRequest, CodeMissingFields, "image is empty")
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		writeError(c, http.StatusBadRequest, CodeInvalidImage, "image exceeds the upload size limit")
		return
	}

	image, err := readUpload(fileHeader)
	if err != nil {
		h.writeIntakeError(c, log, err)
		return
	}

	contentType := http.DetectContentType(image)
	if !strings.HasPrefix(contentType, "image/") {
		writeError(c, http.StatusBadRequest, CodeInvalidImage, "uploaded file is not an image")
		return
	}

	result, err := h.dispatchService.SubmitIntake(c.Request.Context(), &models.IntakeRequest{
		Image:       image,
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		Latitude:    *form.Latitude,
		Longitude:   *form.Longitude,
	})
	if err != nil {
		h.writeIntakeError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, IntakeResponse{AlertID: result.AlertID, Status: string(result.Status)})
}

func (h *Handler) writeIntakeError(c *gin.Context, log *logrus.Entry, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(c, http.StatusBadRequest, CodeMissingFields, err.Error())
	case errors.Is(err, service.ErrNoResponderAvailable):
		writeError(c, http.StatusNotFound, CodeNoResponderInRange, "no rescue organization covers this location")
	case errors.Is(err, service.ErrClassificationInfrastructure):
		log.WithError(err).Error("Intake failed")
		writeError(c, http.StatusInternalServerError, CodeClassificationInfra, "could not process the uploaded image")
	case errors.Is(err, service.ErrStorage):
		log.WithError(err).Error("Intake failed")
		writeError(c, http.StatusInternalServerError, CodeStorageFailure, "could not store the alert")
	default:
		log.WithError(err).Error("Intake failed")
		writeError(c, http.StatusInternalServerError, CodeStorageFailure, "could not store the alert")
	}
}

// readUpload читает загруженный файл целиком; сбой открытия или чтения
// оборачивается в ErrClassificationInfrastructure
func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("could not open uploaded image: %w: %w", service.ErrClassificationInfrastructure, err)
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("could not read uploaded image: %w: %w", service.ErrClassificationInfrastructure, err)
	}
	return image, nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// @Summary Get a list of alerts
// @Description Get all alerts, newest first.
// @Tags Alerts
// @Produce json
// @Success 200 {array} AlertResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /alerts [get]
func (h *Handler) listAlerts(c *gin.Context) {
	log := h.logger.WithField("method", "listAlerts")

	alerts, err := h.alertService.ListAlerts(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list alerts from service")
		writeError(c, http.StatusInternalServerError, CodeInternal, "internal server error")
		return
	}

	c.JSON(http.StatusOK, ModelsToAlertResponses(alerts))
}

// @Summary Get alert by ID
// @Description Get a single alert by its ID.
// @Tags Alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} AlertResponse
// @Failure 400 {object} ErrorResponse "Invalid alert ID"
// @Failure 404 {object} ErrorResponse "Alert not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /alerts/{id} [get]
func (h *Handler) getAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, CodeMissingFields, "invalid alert ID")
		return
	}
	log := h.logger.WithField("method", "getAlert").WithField("id", id)

	alert, err := h.alertService.GetAlert(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAlertNotFound) {
			writeError(c, http.StatusNotFound, CodeNotFound, "alert not found")
			return
		}
		log.WithError(err).Error("Failed to get alert from service")
		writeError(c, http.StatusInternalServerError, CodeInternal, "internal server error")
		return
	}
	c.JSON(http.StatusOK, ModelToAlertResponse(alert))
}

// @Summary Retry the rescue workflow for a pending alert
// @Description Triggers the notification workflow again for an alert that stayed pending and marks it notified on success.
// @Tags Alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} AlertResponse
// @Failure 400 {object} ErrorResponse "Invalid alert ID"
// @Failure 404 {object} ErrorResponse "Alert not found"
// @Failure 409 {object} ErrorResponse "Alert is already notified"
// @Failure 502 {object} ErrorResponse "Workflow rejected or unreachable"
// @Failure 503 {object} ErrorResponse "Workflow is not configured"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /alerts/{id}/notify [post]
func (h *Handler) notifyAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, CodeMissingFields, "invalid alert ID")
		return
	}
	log := h.logger.WithField("method", "notifyAlert").WithField("id", id)

	alert, err := h.dispatchService.RetryNotification(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlertNotFound):
			writeError(c, http.StatusNotFound, CodeNotFound, "alert not found")
		case errors.Is(err, service.ErrAlertNotPending):
			writeError(c, http.StatusConflict, CodeAlertNotPending, "alert is not pending")
		case errors.Is(err, service.ErrWorkflowNotConfigured):
			writeError(c, http.StatusServiceUnavailable, CodeWorkflowUnavailable, "notification workflow is not configured")
		case errors.Is(err, service.ErrNotificationFailed):
			log.WithError(err).Warn("Notification retry failed")
			writeError(c, http.StatusBadGateway, CodeNotificationFailed, "notification workflow failed, alert stays pending")
		default:
			log.WithError(err).Error("Failed to retry notification")
			writeError(c, http.StatusInternalServerError, CodeInternal, "internal server error")
		}
		return
	}
	c.JSON(http.StatusOK, ModelToAlertResponse(alert))
}

// @Summary Get alert statistics
// @Description Get the total number of alerts, critical cases and the most common animal.
// @Tags Alerts
// @Produce json
// @Success 200 {object} StatsResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /alerts/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	stats, err := h.alertService.GetStats(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to get stats from service")
		writeError(c, http.StatusInternalServerError, CodeInternal, "internal server error")
		return
	}

	c.JSON(http.StatusOK, ModelToStatsResponse(stats))
}

// @Summary Get the responder roster
// @Description Get all rescue organizations ordered by name.
// @Tags Responders
// @Produce json
// @Success 200 {array} ResponderResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /responders [get]
func (h *Handler) listResponders(c *gin.Context) {
	log := h.logger.WithField("method", "listResponders")

	responders, err := h.responderService.ListResponders(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list responders from service")
		writeError(c, http.StatusInternalServerError, CodeInternal, "internal server error")
		return
	}

	c.JSON(http.StatusOK, ModelsToResponderResponses(responders))
}

// @Summary Get responder by ID
// @Description Get a single rescue organization, e.g. the one assigned to an alert.
// @Tags Responders
// @Produce json
// @Param id path string true "Responder ID"
// @Success 200 {object} ResponderResponse
// @Failure 400 {object} ErrorResponse "Invalid responder ID"
// @Failure 404 {object} ErrorResponse "Responder not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /responders/{id} [get]
func (h *Handler) getResponder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, CodeMissingFields, "invalid responder ID")
		return
	}
	log := h.logger.WithField("method", "getResponder").WithField("id", id)

	responder, err := h.responderService.GetResponder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrResponderNotFound) {
			writeError(c, http.StatusNotFound, CodeNotFound, "responder not found")
			return
		}
		log.WithError(err).Error("Failed to get responder from service")
		writeError(c, http.StatusInternalServerError, CodeInternal, "internal server error")
		return
	}
	c.JSON(http.StatusOK, ModelToResponderResponse(responder))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
