package server

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"fitstudio/internal/ledger"
)

// RegisterValidators attaches domain validation rules to gin's binding
// engine. Request structs opt in with e.g. binding:"instrument".
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterValidation("instrument", validInstrument)
}

// validInstrument accepts the wallet and every known token type.
func validInstrument(fl validator.FieldLevel) bool {
	switch ledger.Instrument(fl.Field().String()) {
	case ledger.InstrumentCredits,
		ledger.InstrumentPrivateToken,
		ledger.InstrumentPublicToken,
		ledger.InstrumentSemiPrivateToken,
		ledger.InstrumentWorkoutDayToken:
		return true
	}
	return false
}
