package router

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Yusufzhafir/clob-sim/internal/engine"
	"github.com/Yusufzhafir/clob-sim/internal/usecase/quote"
	"github.com/Yusufzhafir/clob-sim/pkg/fee"
	"github.com/Yusufzhafir/clob-sim/pkg/tick"
	"github.com/Yusufzhafir/clob-sim/pkg/util"
	"github.com/ethereum/go-ethereum/common"
)

type QuoteRouter interface {
	ExpectedOutput(w http.ResponseWriter, r *http.Request)
	ExpectedInput(w http.ResponseWriter, r *http.Request)
	BookDepth(w http.ResponseWriter, r *http.Request)
}

type quoteRouterImpl struct {
	usecase quote.QuoteUseCase
}

func NewQuoteRouter(usecase quote.QuoteUseCase) QuoteRouter {
	return &quoteRouterImpl{
		usecase: usecase,
	}
}

func (qr *quoteRouterImpl) ExpectedOutput(w http.ResponseWriter, r *http.Request) {
	type ExpectedOutputRequest struct {
		ChainID     uint64         `json:"chainId"`
		InputToken  common.Address `json:"inputToken"`
		OutputToken common.Address `json:"outputToken"`
		AmountIn    string         `json:"amountIn"`             // human units
		LimitPrice  string         `json:"limitPrice,omitempty"` // quote per base
	}
	req, err := decodeJSON[ExpectedOutputRequest](w, r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}
	if req.AmountIn == "" {
		writeJSONError(w, http.StatusBadRequest, errors.New("amountIn is required"))
		return
	}

	q, err := qr.usecase.GetExpectedOutput(r.Context(), quote.ExpectedOutputParams{
		ChainID:     req.ChainID,
		InputToken:  req.InputToken,
		OutputToken: req.OutputToken,
		AmountIn:    req.AmountIn,
		LimitPrice:  req.LimitPrice,
	})
	if err != nil {
		writeJSONError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (qr *quoteRouterImpl) ExpectedInput(w http.ResponseWriter, r *http.Request) {
	type ExpectedInputRequest struct {
		ChainID     uint64         `json:"chainId"`
		InputToken  common.Address `json:"inputToken"`
		OutputToken common.Address `json:"outputToken"`
		AmountOut   string         `json:"amountOut"`
		LimitPrice  string         `json:"limitPrice,omitempty"`
	}
	req, err := decodeJSON[ExpectedInputRequest](w, r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}
	if req.AmountOut == "" {
		writeJSONError(w, http.StatusBadRequest, errors.New("amountOut is required"))
		return
	}

	q, err := qr.usecase.GetExpectedInput(r.Context(), quote.ExpectedInputParams{
		ChainID:     req.ChainID,
		InputToken:  req.InputToken,
		OutputToken: req.OutputToken,
		AmountOut:   req.AmountOut,
		LimitPrice:  req.LimitPrice,
	})
	if err != nil {
		writeJSONError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (qr *quoteRouterImpl) BookDepth(w http.ResponseWriter, r *http.Request) {
	chainID, err := strconv.ParseUint(r.PathValue("chainId"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, errors.New("chainId must be a number"))
		return
	}
	base, quoteToken := r.URL.Query().Get("base"), r.URL.Query().Get("quote")
	if !common.IsHexAddress(base) || !common.IsHexAddress(quoteToken) {
		writeJSONError(w, http.StatusBadRequest, errors.New("base and quote must be addresses"))
		return
	}

	depth, err := qr.usecase.GetBookDepth(r.Context(), chainID, common.HexToAddress(base), common.HexToAddress(quoteToken))
	if err != nil {
		writeJSONError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, depth)
}

// statusFor maps use case errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, quote.ErrUnknownChain), errors.Is(err, quote.ErrUnknownCurrency):
		return http.StatusNotFound
	case errors.Is(err, util.ErrInvalidAmount),
		errors.Is(err, tick.ErrOutOfRange),
		errors.Is(err, fee.ErrInvalidFeePolicy),
		errors.Is(err, engine.ErrInvalidTokenPair):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
