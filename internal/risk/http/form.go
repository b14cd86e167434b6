package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
	"github.com/aussiebroadwan/creditrisk/internal/risk/service"
	"github.com/aussiebroadwan/creditrisk/pkg/httpx"
)

// FormHandler serves the applicant form and its result page.
type FormHandler struct {
	PredictionService *service.PredictionService
	AuthEnabled       bool

	pages *pages
}

// HandleIndex renders the empty applicant form.
func (h *FormHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data := h.data(r)
	data.Summary = h.pages.summary(data.Applicant)
	h.pages.render(w, r, h.pages.form, http.StatusOK, data)
}

// HandlePredict scores the submitted applicant and renders the verdict next
// to the filled in form.
func (h *FormHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	data := h.data(r)

	if err := r.ParseForm(); err != nil {
		data.Error = "Invalid form submission"
		h.pages.render(w, r, h.pages.form, http.StatusBadRequest, data)
		return
	}

	a, err := applicantFromForm(r)
	data.Applicant = a
	if err != nil {
		data.Error = err.Error()
		h.pages.render(w, r, h.pages.form, http.StatusUnprocessableEntity, data)
		return
	}
	data.Summary = h.pages.summary(a)

	pred, err := h.PredictionService.Predict(r.Context(), a)
	if err != nil {
		code, msg := pageError(err)
		data.Error = msg
		h.pages.render(w, r, h.pages.form, code, data)
		return
	}

	data.Verdict = verdict(pred)
	h.pages.render(w, r, h.pages.form, http.StatusOK, data)
}

func (h *FormHandler) data(r *http.Request) pageData {
	data := h.pages.data()
	data.AuthEnabled = h.AuthEnabled
	data.Username = httpx.UsernameFromContext(r.Context())
	return data
}

// applicantFromForm reads the posted form. Unparseable numbers are reported
// as validation errors; on error the returned applicant still carries what
// was submitted so the form can be re-rendered.
func applicantFromForm(r *http.Request) (domain.Applicant, error) {
	a := domain.Applicant{
		Sex:             strings.TrimSpace(r.PostForm.Get("sex")),
		Housing:         strings.TrimSpace(r.PostForm.Get("housing")),
		SavingAccount:   strings.TrimSpace(r.PostForm.Get("saving_account")),
		CheckingAccount: strings.TrimSpace(r.PostForm.Get("checking_account")),
	}

	ints := []struct {
		name  string
		field string
		dst   *int
	}{
		{"age", domain.FieldAge, &a.Age},
		{"job", domain.FieldJob, &a.Job},
		{"credit_amount", domain.FieldCreditAmount, &a.CreditAmount},
		{"duration_months", domain.FieldDuration, &a.DurationMonths},
	}

	var firstErr error
	for _, f := range ints {
		n, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get(f.name)))
		if err != nil {
			if firstErr == nil {
				firstErr = &domain.ValidationError{Field: f.field, Reason: "must be a whole number"}
			}
			continue
		}
		*f.dst = n
	}
	return a, firstErr
}

// pageError maps a prediction failure onto a status code and the message
// shown above the form.
func pageError(err error) (int, string) {
	var (
		verr *domain.ValidationError
		eerr *domain.EncodingError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &eerr):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusBadGateway, "Prediction error"
	}
}
