package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/quotemesh/bridgequote/internal/apperror"
	"github.com/quotemesh/bridgequote/internal/chainindex"
)

// CompareRequest is one comparison over all enabled providers. Sender
// and Slippage are filled from config defaults before validation when
// the caller leaves them empty.
type CompareRequest struct {
	FromChainID int64  `json:"fromChainId"`
	ToChainID   int64  `json:"toChainId"`
	Token       string `json:"token"`
	Amount      string `json:"amount"`
	Sender      string `json:"fromAddress"`
	Slippage    string `json:"slippage"`
	Debug       bool   `json:"debug"`
}

// Validate checks the request invariants. It returns a validation
// AppError suitable for a 400 response.
func (r *CompareRequest) Validate() error {
	if r.FromChainID == 0 || r.ToChainID == 0 || r.Token == "" || r.Amount == "" {
		return apperror.New(apperror.CodeRequiredField,
			apperror.WithMessage("Missing required parameters (fromChainId, toChainId, token, amount)"))
	}
	if r.FromChainID == r.ToChainID {
		return apperror.New(apperror.CodeInvalidInput,
			apperror.WithMessage("Source and destination chains must be different"))
	}
	amt, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil || amt.Sign() <= 0 {
		return apperror.Validation(apperror.CodeInvalidInput, "amount must be a positive number")
	}
	if r.Sender == "" || strings.EqualFold(r.Sender, chainindex.ZeroAddress.Hex()) {
		return apperror.New(apperror.CodeRequiredField,
			apperror.WithMessage("Valid wallet address required"),
			apperror.WithContext("set QUOTE_FROM_ADDRESS or pass fromAddress in request body"))
	}
	if !common.IsHexAddress(r.Sender) {
		return apperror.Validation(apperror.CodeInvalidAddress, "fromAddress: "+r.Sender)
	}
	return nil
}
