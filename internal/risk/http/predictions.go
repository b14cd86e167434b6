package http

import (
	"net/http"

	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
	"github.com/aussiebroadwan/creditrisk/internal/risk/service"
	"github.com/aussiebroadwan/creditrisk/pkg/httpx"
	"github.com/aussiebroadwan/creditrisk/pkg/risksdk"
)

// PredictionsHandler serves POST /v1/predictions.
type PredictionsHandler struct {
	PredictionService *service.PredictionService
}

// ServeHTTP godoc
//
//	@Summary		Predict Credit Risk
//	@Description	Scores one loan applicant and returns the good/bad verdict with the confidence of the predicted label.
//	@Description	Categorical values must be members of their encoder tables; there is no fallback for unknown values.
//	@Tags			Predictions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		risksdk.PredictionRequest		true	"Applicant"
//	@Success		200		{object}	risksdk.PredictionResponse		"label, confidence, confidence_percent"
//	@Failure		400		{object}	httpx.ErrorResponse				"error, error_description"
//	@Failure		401		{object}	httpx.ErrorResponse				"error, error_description"
//	@Failure		422		{object}	httpx.ErrorResponse				"validation_error or encoding_error"
//	@Failure		502		{object}	httpx.ErrorResponse				"prediction_error"
//	@Security		BearerAuth
//	@Router			/v1/predictions [post].
func (h *PredictionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req risksdk.PredictionRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	pred, err := h.PredictionService.Predict(r.Context(), applicantFromRequest(req))
	if err != nil {
		apiError(err).WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, risksdk.PredictionResponse{
		Label:             string(pred.Label),
		Confidence:        pred.Confidence,
		ConfidencePercent: pred.Percent(),
	})
}

func applicantFromRequest(req risksdk.PredictionRequest) domain.Applicant {
	return domain.Applicant{
		Age:             req.Age,
		Sex:             req.Sex,
		Job:             req.Job,
		Housing:         req.Housing,
		SavingAccount:   req.SavingAccount,
		CheckingAccount: req.CheckingAccount,
		CreditAmount:    req.CreditAmount,
		DurationMonths:  req.DurationMonths,
	}
}
