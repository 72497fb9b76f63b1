package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ChemistryHero11/BarExchange-Pro/api/responses"
	"github.com/ChemistryHero11/BarExchange-Pro/api/validators"
	"github.com/ChemistryHero11/BarExchange-Pro/internal/bars"
	pkgerrors "github.com/ChemistryHero11/BarExchange-Pro/pkg/errors"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/logger"
)

type createBarRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=120"`
	OwnerName string `json:"owner_name,omitempty" validate:"omitempty,max=120"`
}

// BarCreate registers a new venue.
func BarCreate(svc bars.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBarRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bar, err := svc.Create(r.Context(), bars.CreateBarInput{
			Name:      validators.SanitizeString(req.Name, 120),
			OwnerName: validators.SanitizeString(req.OwnerName, 120),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, bar)
	}
}

// BarList returns every registered venue.
func BarList(svc bars.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// BarGet loads one venue by id.
func BarGet(svc bars.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		barID, err := parseIDParam(r, "barID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bar, err := svc.GetByID(r.Context(), barID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bar)
	}
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}
