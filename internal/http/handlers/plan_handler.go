// Plan HTTP handlers.
//
// This file exposes the generation endpoints:
//   - POST /generate                      (flat form fields from the landing page)
//   - POST /generate-diet-from-node-data  (JSON {email, metadata} from the Node backend)
//   - POST /generate-diet                 (JSON {ayurvedic_input} free text, older clients)
//
// All run the same pipeline. When an address is present the plan is also
// e-mailed in the background; the response never waits for delivery.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Akshaypareek01/DietProject-samsara/internal/http/middleware"
	"github.com/Akshaypareek01/DietProject-samsara/internal/profile"
	"github.com/Akshaypareek01/DietProject-samsara/internal/services"
)

const (
	RouteGenerate       = "/generate"
	RouteGenerateNode   = "/generate-diet-from-node-data"
	RouteGenerateLegacy = "/generate-diet"
)

// maxFormMemory bounds the in-memory part of a multipart form.
const maxFormMemory = 1 << 20

// PlanResponse is returned by POST /generate.
type PlanResponse struct {
	Plan         string `json:"plan" example:"# Personalized Ayurvedic Diet Plan\n## Day 1 - Monday\n..."`
	UsedLocation string `json:"used_location" example:"Pune, IN"`
	UsedWeather  string `json:"used_weather" example:"Clear Sky, Temp: 31.2°C"`
	CurrentDay   string `json:"current_day" example:"Monday"`
}

// NodePlanResponse is returned by POST /generate-diet-from-node-data.
type NodePlanResponse struct {
	Success      bool   `json:"success" example:"true"`
	Message      string `json:"message" example:"Diet plan generated successfully"`
	Plan         string `json:"plan" example:"# Personalized Ayurvedic Diet Plan\n..."`
	UsedLocation string `json:"used_location" example:"Pune, IN"`
	UsedWeather  string `json:"used_weather" example:"Not available"`
	CurrentDay   string `json:"current_day" example:"Monday"`
	// True when a delivery was dispatched, not when it arrived.
	EmailSent bool `json:"email_sent" example:"false"`
}

// NodePlanRequest documents the JSON body; metadata is searched by key
// aliases at any depth.
type NodePlanRequest struct {
	Email    *string        `json:"email,omitempty" example:"user@example.com"`
	Metadata map[string]any `json:"metadata"`
}

// GenerateFromForm godoc
// @ID          generateFromForm
// @Summary     Generate a plan from form fields
// @Description Normalizes the submitted profile (missing fields take defaults), enriches it with local weather when coordinates are given, and returns the model's plan. If `email` is set the plan is also e-mailed as a PDF in the background.
// @Tags        Plans
// @Accept      x-www-form-urlencoded,mpfd
// @Produce     json
//
// @Param       age               formData  int     false "Age in years"                example(34)
// @Param       gender            formData  string  false "Gender"                      example(Female)
// @Param       height            formData  number  false "Height in cm"                example(165)
// @Param       weight            formData  number  false "Weight in kg"                example(60)
// @Param       dosha             formData  string  false "Dosha"                       example(Vata-Pitta)
// @Param       disease           formData  string  false "Primary condition"           example(Acidity)
// @Param       secondary_disease formData  string  false "Secondary condition"         example(None)
// @Param       water             formData  number  false "Water intake (litres/day)"   example(2.5)
// @Param       bmi               formData  number  false "BMI (derived when omitted)"  example(22)
// @Param       sleep             formData  string  false "Sleep quality"               example(Good)
// @Param       appetite          formData  string  false "Appetite"                    example(Normal)
// @Param       location          formData  string  false "Location text"               example(Pune)
// @Param       latitude          formData  number  false "Latitude"                    example(18.52)
// @Param       longitude         formData  number  false "Longitude"                   example(73.85)
// @Param       email             formData  string  false "Recipient for the PDF"       example(user@example.com)
//
// @Success     200  {object} handlers.PlanResponse
// @Failure     400  {object} handlers.ErrorResponse "Malformed form"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /generate [post]
func (h *Handlers) GenerateFromForm(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		if isTooLarge(err) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, "request body too large")
			return
		}
		middleware.LoggerFrom(c).Warn().Err(err).Msg("form parse failed")
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgInvalidForm)
		return
	}

	res, err := h.generate(c, profile.FromForm(c.Request.PostForm), RouteGenerate)
	if err != nil {
		h.failGeneration(c, err)
		return
	}
	ok(c, http.StatusOK, PlanResponse{
		Plan:         res.Plan,
		UsedLocation: res.UsedLocation,
		UsedWeather:  res.UsedWeather,
		CurrentDay:   res.CurrentDay,
	})
}

// GenerateFromNodeData godoc
// @ID          generateFromNodeData
// @Summary     Generate a plan from nested profile metadata
// @Description Accepts `{email, metadata}` where metadata is arbitrarily nested. Profile fields are located by key aliases (case and punctuation insensitive). `email_sent` reports that a delivery was dispatched.
// @Tags        Plans
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.NodePlanRequest  true  "Profile payload"
//
// @Success     200  {object} handlers.NodePlanResponse
// @Failure     400  {object} handlers.ErrorResponse "Missing or unparsable body"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /generate-diet-from-node-data [post]
func (h *Handlers) GenerateFromNodeData(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		if isTooLarge(err) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, "request body too large")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgInvalidJSON)
		return
	}

	in, err := profile.FromNodePayload(body)
	if err != nil {
		if errors.Is(err, profile.ErrInvalidPayload) {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("payload rejected")
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgInvalidJSON)
			return
		}
		h.failGeneration(c, err)
		return
	}

	res, err := h.generate(c, in, RouteGenerateNode)
	if err != nil {
		h.failGeneration(c, err)
		return
	}

	msg := msgPlanGenerated
	if res.EmailSent {
		msg = msgPlanDispatched
	}
	ok(c, http.StatusOK, NodePlanResponse{
		Success:      true,
		Message:      msg,
		Plan:         res.Plan,
		UsedLocation: res.UsedLocation,
		UsedWeather:  res.UsedWeather,
		CurrentDay:   res.CurrentDay,
		EmailSent:    res.EmailSent,
	})
}

// LegacyPlanRequest is the body of POST /generate-diet. ayurvedic_input is
// usually a string; any other JSON value is passed on as its JSON text.
type LegacyPlanRequest struct {
	AyurvedicInput json.RawMessage `json:"ayurvedic_input" swaggertype:"string" example:"34 year old woman, Vata-Pitta, GERD, sleeps poorly, lives in Pune"`
}

// LegacyPlanResponse is returned by POST /generate-diet.
type LegacyPlanResponse struct {
	DietPlan string `json:"diet_plan" example:"# Personalized Ayurvedic Diet Plan\n..."`
}

// GenerateFromDescription godoc
// @ID          generateFromDescription
// @Summary     Generate a plan from a free-text description
// @Description Kept for older clients. The description is passed to the model verbatim; no weather lookup or e-mail delivery happens.
// @Tags        Plans
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LegacyPlanRequest  true  "Free-text profile"
//
// @Success     200  {object} handlers.LegacyPlanResponse
// @Failure     400  {object} handlers.ErrorResponse "Missing ayurvedic_input"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /generate-diet [post]
func (h *Handlers) GenerateFromDescription(c *gin.Context) {
	var req LegacyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isTooLarge(err) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, "request body too large")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgInvalidJSON)
		return
	}

	in, err := profile.FromFreeText(descriptionText(req.AyurvedicInput))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgMissingDescription)
		return
	}

	res, err := h.generate(c, in, RouteGenerateLegacy)
	if err != nil {
		h.failGeneration(c, err)
		return
	}
	ok(c, http.StatusOK, LegacyPlanResponse{DietPlan: res.Plan})
}

// descriptionText unquotes a JSON string and keeps any other value as its
// JSON text. null, "" and absent all come back empty.
func descriptionText(raw json.RawMessage) string {
	v := strings.TrimSpace(string(raw))
	if v == "" || v == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return v
}

func (h *Handlers) generate(c *gin.Context, in profile.Input, route string) (services.Result, error) {
	ctx := services.WithRequestID(c.Request.Context(), middleware.GetRequestID(c))
	return h.plans.Generate(ctx, in, route)
}

// failGeneration maps service errors to responses. The service has already
// logged the detail.
func (h *Handlers) failGeneration(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgInvalidJSON)
	case errors.Is(err, services.ErrConfiguration):
		fail(c, http.StatusInternalServerError, ErrCodeNotConfigured, msgNotConfigured)
	case errors.Is(err, services.ErrUpstream):
		fail(c, http.StatusInternalServerError, ErrCodeGenerationFailed, msgInternal)
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, msgInternal)
	}
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
