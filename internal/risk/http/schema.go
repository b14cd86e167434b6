package http

import (
	"net/http"

	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
	"github.com/aussiebroadwan/creditrisk/internal/risk/encoding"
	"github.com/aussiebroadwan/creditrisk/pkg/httpx"
	"github.com/aussiebroadwan/creditrisk/pkg/risksdk"
)

// SchemaHandler godoc
//
//	@Summary		Applicant Schema
//	@Description	Returns the classifier column order, the accepted values of each categorical field and the numeric ranges.
//	@Tags			Predictions
//	@Produce		json
//	@Success		200	{object}	risksdk.SchemaResponse	"features, categories, ranges"
//	@Router			/v1/schema [get].
func SchemaHandler(tables *encoding.Tables) http.HandlerFunc {
	maxAge, maxJob := domain.MaxAge, domain.MaxJob

	resp := risksdk.SchemaResponse{
		Features:   encoding.FeatureOrder[:],
		Categories: make(map[string][]string, len(encoding.CategoricalFields)),
		Ranges: map[string]risksdk.Range{
			domain.FieldAge:          {Min: domain.MinAge, Max: &maxAge},
			domain.FieldJob:          {Min: domain.MinJob, Max: &maxJob},
			domain.FieldCreditAmount: {Min: 0},
			domain.FieldDuration:     {Min: 0},
		},
	}
	for _, field := range encoding.CategoricalFields {
		if t, ok := tables.Table(field); ok {
			resp.Categories[field] = t.Classes()
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}
