package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ChemistryHero11/BarExchange-Pro/api/responses"
	"github.com/ChemistryHero11/BarExchange-Pro/api/validators"
	"github.com/ChemistryHero11/BarExchange-Pro/internal/drinks"
	pkgerrors "github.com/ChemistryHero11/BarExchange-Pro/pkg/errors"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/logger"
)

type createDrinkRequest struct {
	BarID     uuid.UUID `json:"bar_id" validate:"required"`
	Name      string    `json:"name" validate:"required,min=1,max=120"`
	Tags      []string  `json:"tags,omitempty" validate:"omitempty,max=16,dive,max=40"`
	BasePrice string    `json:"base_price" validate:"required"`
}

type updateDrinkRequest struct {
	Name      *string   `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Tags      *[]string `json:"tags,omitempty" validate:"omitempty,max=16,dive,max=40"`
	BasePrice *string   `json:"base_price,omitempty"`
}

// DrinkCreate adds a drink to a bar's menu.
func DrinkCreate(svc drinks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createDrinkRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		basePrice, err := parsePrice(req.BasePrice)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		drink, err := svc.Create(r.Context(), drinks.CreateDrinkInput{
			BarID:     req.BarID,
			Name:      validators.SanitizeString(req.Name, 120),
			Tags:      req.Tags,
			BasePrice: basePrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, drink)
	}
}

// DrinkGet loads one drink, including its live price state.
func DrinkGet(svc drinks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drinkID, err := parseIDParam(r, "drinkID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		drink, err := svc.GetByID(r.Context(), drinkID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, drink)
	}
}

// DrinkUpdate changes the owner-editable menu fields. A base price change
// here is the only write path for base_price in the whole system.
func DrinkUpdate(svc drinks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drinkID, err := parseIDParam(r, "drinkID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateDrinkRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := drinks.UpdateDrinkInput{Tags: req.Tags}
		if req.Name != nil {
			name := validators.SanitizeString(*req.Name, 120)
			input.Name = &name
		}
		if req.BasePrice != nil {
			price, err := parsePrice(*req.BasePrice)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.BasePrice = &price
		}

		drink, err := svc.Update(r.Context(), drinkID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, drink)
	}
}

// DrinkDelete removes a drink from the menu.
func DrinkDelete(svc drinks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drinkID, err := parseIDParam(r, "drinkID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), drinkID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// BarDashboard returns the owner's menu view with full price state.
func BarDashboard(svc drinks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		barID, err := parseIDParam(r, "barID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.Dashboard(r.Context(), barID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// BarTicker returns the patron-facing price board for a bar.
func BarTicker(svc drinks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		barID, err := parseIDParam(r, "barID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries, err := svc.Ticker(r.Context(), barID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price must be a decimal string")
	}
	return price, nil
}
