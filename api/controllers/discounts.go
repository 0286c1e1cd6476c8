package controllers

import (
	"net/http"
	"strings"

	"github.com/dreamboutique/boutique-backend/api/responses"
	"github.com/dreamboutique/boutique-backend/api/validators"
	discountsvc "github.com/dreamboutique/boutique-backend/internal/discounts"
	"github.com/dreamboutique/boutique-backend/pkg/enums"
	pkgerrors "github.com/dreamboutique/boutique-backend/pkg/errors"
	"github.com/dreamboutique/boutique-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type createRuleRequest struct {
	Type     string  `json:"type" validate:"required,oneof=percentage fixed"`
	Value    string  `json:"value" validate:"required"`
	Code     *string `json:"code,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (req createRuleRequest) toInput() (discountsvc.AddRuleInput, error) {
	kind, err := enums.ParseDiscountType(strings.TrimSpace(req.Type))
	if err != nil {
		return discountsvc.AddRuleInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type")
	}
	value, err := decimal.NewFromString(strings.TrimSpace(req.Value))
	if err != nil {
		return discountsvc.AddRuleInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount value")
	}

	input := discountsvc.AddRuleInput{
		Type:     kind,
		Value:    value,
		Code:     req.Code,
		IsActive: true,
	}
	if req.IsActive != nil {
		input.IsActive = *req.IsActive
	}
	return input, nil
}

func AdminListDiscounts(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		rules, err := svc.ListRules(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rules)
	}
}

func AdminGetDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		id, err := validators.ParseURLParamUUID(r, "ruleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rule, err := svc.GetRule(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rule)
	}
}

func AdminCreateDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		var payload createRuleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rule, err := svc.AddRule(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, rule)
	}
}

type updateRuleRequest struct {
	Type      *string `json:"type,omitempty" validate:"omitempty,oneof=percentage fixed"`
	Value     *string `json:"value,omitempty"`
	Code      *string `json:"code,omitempty"`
	ClearCode bool    `json:"clear_code,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func (req updateRuleRequest) toInput() (discountsvc.UpdateRuleInput, error) {
	input := discountsvc.UpdateRuleInput{
		Code:      req.Code,
		ClearCode: req.ClearCode,
		IsActive:  req.IsActive,
	}
	if req.Type != nil {
		kind, err := enums.ParseDiscountType(strings.TrimSpace(*req.Type))
		if err != nil {
			return discountsvc.UpdateRuleInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type")
		}
		input.Type = &kind
	}
	if req.Value != nil {
		value, err := decimal.NewFromString(strings.TrimSpace(*req.Value))
		if err != nil {
			return discountsvc.UpdateRuleInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount value")
		}
		input.Value = &value
	}
	return input, nil
}

func AdminUpdateDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		id, err := validators.ParseURLParamUUID(r, "ruleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateRuleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rule, err := svc.UpdateRule(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rule)
	}
}

type setActiveRequest struct {
	IsActive bool `json:"is_active"`
}

func AdminSetDiscountActive(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		id, err := validators.ParseURLParamUUID(r, "ruleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setActiveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rule, err := svc.SetActive(r.Context(), id, payload.IsActive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rule)
	}
}

func AdminToggleDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		id, err := validators.ParseURLParamUUID(r, "ruleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rule, err := svc.ToggleActive(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rule)
	}
}

func AdminDeleteDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		id, err := validators.ParseURLParamUUID(r, "ruleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteRule(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
