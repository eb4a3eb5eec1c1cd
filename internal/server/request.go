package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/KapuKapu/bimiTool/internal/store"
	"github.com/go-playground/validator/v10"
)

type accountRequest struct {
	Name   string `json:"name" validate:"required"`
	Credit int64  `json:"credit"`
}

type renameRequest struct {
	Name string `json:"name" validate:"required"`
}

type creditRequest struct {
	Amount int64 `json:"amount" validate:"required"`
}

// Every field must be present; the store replaces all of them at once.
type drinkRequest struct {
	Name          *string `json:"name" validate:"required,min=1"`
	SalesPrice    *int64  `json:"salesPrice" validate:"required,min=0"`
	PurchasePrice *int64  `json:"purchasePrice" validate:"required,min=0"`
	Deposit       *int64  `json:"deposit" validate:"required,min=0"`
	BottlesFull   *int64  `json:"bottlesFull" validate:"required"`
	BottlesEmpty  *int64  `json:"bottlesEmpty" validate:"required"`
	KingsEligible *bool   `json:"kingsEligible" validate:"required"`
}

func (r *drinkRequest) spec() store.DrinkSpec {
	return store.DrinkSpec{
		Name:          *r.Name,
		SalesPrice:    *r.SalesPrice,
		PurchasePrice: *r.PurchasePrice,
		Deposit:       *r.Deposit,
		BottlesFull:   *r.BottlesFull,
		BottlesEmpty:  *r.BottlesEmpty,
		KingsEligible: *r.KingsEligible,
	}
}

type lineItemRequest struct {
	DrinkID  int64 `json:"drinkId" validate:"required"`
	Quantity int64 `json:"quantity" validate:"gt=0"`
}

type consumeRequest struct {
	Items []lineItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r *consumeRequest) lineItems() []store.LineItem {
	items := make([]store.LineItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = store.LineItem{DrinkID: item.DrinkID, Quantity: item.Quantity}
	}
	return items
}

// decodeRequest reads a JSON body into dst and validates it. On failure the
// error response is already written.
func (h *handler) decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		sendErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		resp := ErrorResponse{Error: "Validation failed"}
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			resp.Details = make(map[string]string, len(validationErrors))
			for _, fieldErr := range validationErrors {
				resp.Details[fieldErr.Namespace()] = fmt.Sprintf("Field validation failed on '%s' tag", fieldErr.Tag())
			}
		}
		sendJSON(w, resp, http.StatusBadRequest)
		return false
	}
	return true
}
