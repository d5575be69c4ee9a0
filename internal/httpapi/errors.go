package httpapi

import (
	"errors"
	"net/http"

	accountsapp "github.com/streetsource/streetsource-api/internal/domains/accounts/application"
	accountports "github.com/streetsource/streetsource-api/internal/domains/accounts/ports"
	catalogdomain "github.com/streetsource/streetsource-api/internal/domains/catalog/domain"
	catalogports "github.com/streetsource/streetsource-api/internal/domains/catalog/ports"
	communitydomain "github.com/streetsource/streetsource-api/internal/domains/community/domain"
	orderdomain "github.com/streetsource/streetsource-api/internal/domains/orders/domain"
	paymentsapp "github.com/streetsource/streetsource-api/internal/domains/payments/application"
	vendordomain "github.com/streetsource/streetsource-api/internal/domains/vendors/domain"
	vendorports "github.com/streetsource/streetsource-api/internal/domains/vendors/ports"
	verificationdomain "github.com/streetsource/streetsource-api/internal/domains/verification/domain"
	"github.com/streetsource/streetsource-api/internal/shared/envelope"
)

// newResponder builds the error mapper chain covering every bounded context.
// Order matters only in that more specific sentinels are checked before the
// catch-all 500 inside the responder itself.
func newResponder() *envelope.Responder {
	return envelope.NewResponder(
		accountErrors,
		catalogErrors,
		vendorErrors,
		orderErrors,
		paymentErrors,
		verificationErrors,
		communityErrors,
	)
}

func accountErrors(err error) (int, string, bool) {
	switch {
	case errors.Is(err, accountports.ErrPhoneTaken):
		return http.StatusConflict, err.Error(), true
	case errors.Is(err, accountsapp.ErrAuthentication):
		return http.StatusUnauthorized, err.Error(), true
	case errors.Is(err, accountsapp.ErrInvalidInput):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, accountports.ErrNotFound):
		return http.StatusNotFound, err.Error(), true
	}
	return 0, "", false
}

func catalogErrors(err error) (int, string, bool) {
	switch {
	case errors.Is(err, catalogdomain.ErrEmptyItemName),
		errors.Is(err, catalogdomain.ErrInvalidUnit),
		errors.Is(err, catalogdomain.ErrNegativeQuantity),
		errors.Is(err, catalogdomain.ErrNegativePrice),
		errors.Is(err, catalogdomain.ErrMissingProfileFields),
		errors.Is(err, catalogdomain.ErrInvalidRadius):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, catalogports.ErrSupplierNotFound),
		errors.Is(err, catalogports.ErrItemNotFound):
		return http.StatusNotFound, err.Error(), true
	}
	return 0, "", false
}

func vendorErrors(err error) (int, string, bool) {
	switch {
	case errors.Is(err, vendordomain.ErrInvalidBusinessType),
		errors.Is(err, vendordomain.ErrMultiplePrimary),
		errors.Is(err, vendordomain.ErrInvalidTimeOfDay),
		errors.Is(err, vendordomain.ErrInvalidDayOfWeek),
		errors.Is(err, vendordomain.ErrInvalidCuisine):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, vendorports.ErrVendorNotFound):
		return http.StatusNotFound, err.Error(), true
	}
	return 0, "", false
}

func orderErrors(err error) (int, string, bool) {
	switch {
	case errors.Is(err, orderdomain.ErrMissingFields),
		errors.Is(err, orderdomain.ErrInvalidStatus),
		errors.Is(err, orderdomain.ErrInvalidQuantity),
		errors.Is(err, orderdomain.ErrInsufficientStock),
		errors.Is(err, orderdomain.ErrCannotCancel),
		errors.Is(err, orderdomain.ErrTerminalState):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, orderdomain.ErrVendorNotAuthorized):
		return http.StatusForbidden, err.Error(), true
	case errors.Is(err, orderdomain.ErrOrderNotFound),
		errors.Is(err, orderdomain.ErrItemNotFound):
		return http.StatusNotFound, err.Error(), true
	}
	return 0, "", false
}

func paymentErrors(err error) (int, string, bool) {
	switch {
	case errors.Is(err, paymentsapp.ErrMissingCheckoutFields),
		errors.Is(err, paymentsapp.ErrMissingVerifyFields),
		errors.Is(err, paymentsapp.ErrSignatureMismatch):
		return http.StatusBadRequest, err.Error(), true
	}
	return 0, "", false
}

func verificationErrors(err error) (int, string, bool) {
	switch {
	case errors.Is(err, verificationdomain.ErrMissingFields),
		errors.Is(err, verificationdomain.ErrInvalidStatus),
		errors.Is(err, verificationdomain.ErrInvalidRating),
		errors.Is(err, verificationdomain.ErrNoEvidence):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, verificationdomain.ErrRecordNotFound):
		return http.StatusNotFound, err.Error(), true
	}
	return 0, "", false
}

func communityErrors(err error) (int, string, bool) {
	switch {
	case errors.Is(err, communitydomain.ErrMissingFeedback),
		errors.Is(err, communitydomain.ErrInvalidRating):
		return http.StatusBadRequest, err.Error(), true
	}
	return 0, "", false
}
