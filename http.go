package tierbank

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type accountJSONResp struct {
	Number  string          `json:"number"`
	Balance decimal.Decimal `json:"balance"`
	Tier    string          `json:"tier"`
}

type balanceJSONResp struct {
	Balance decimal.Decimal `json:"balance"`
}

func NewHTTPHandler(svc Service, log *zerolog.Logger) http.Handler {
	hndlr := &httpHandler{
		Svc: svc,
		Log: log,
	}
	mux := chi.NewMux()
	mux.NotFound(HTTPNotFound)
	mux.Route("/accounts", func(r chi.Router) {
		r.Post("/", hndlr.CreateAccount)
		r.Route("/{number:[0-9]+}", func(rr chi.Router) {
			rr.Post("/deposit", hndlr.Deposit)
			rr.Post("/withdraw", hndlr.Withdraw)
			rr.Get("/balance", hndlr.Balance)
			rr.Get("/statement", hndlr.Statement)
			rr.Delete("/", hndlr.CloseAccount)
		})
	})

	return mux
}

type httpHandler struct {
	Svc Service
	Log *zerolog.Logger
}

func (h *httpHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	buf, err := io.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		h.Log.Err(err).Str("method", "createAccount").Msg("error reading HTTP request")
		WriteHTTPError(w, ErrInternalServer)
		return
	}
	var req CreateAccountReq
	if err = json.Unmarshal(buf, &req); err != nil {
		h.Log.Err(err).Str("method", "createAccount").Msg("error unmarshalling JSON")
		WriteHTTPError(w, ErrBadRequest{Fields: map[string]string{"request body": "malformed JSON"}})
		return
	}
	acct, err := h.Svc.CreateAccount(req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err = json.NewEncoder(w).Encode(acctResp(acct)); err != nil {
		h.Log.Err(err).Str("method", "createAccount").Msg("error encoding response")
	}
}

func (h *httpHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.charge(w, r, "deposit", h.Svc.Deposit)
}

func (h *httpHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.charge(w, r, "withdraw", h.Svc.Withdraw)
}

func (h *httpHandler) charge(w http.ResponseWriter, r *http.Request, method string, call func(ChargeReq) (*Account, error)) {
	buf, err := io.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		h.Log.Err(err).Str("method", method).Msg("error reading HTTP request")
		WriteHTTPError(w, ErrInternalServer)
		return
	}
	var req ChargeReq
	if err = json.Unmarshal(buf, &req); err != nil {
		h.Log.Err(err).Str("method", method).Msg("error unmarshalling JSON")
		WriteHTTPError(w, ErrBadRequest{Fields: map[string]string{"request body": "malformed JSON"}})
		return
	}
	req.Number = chi.URLParam(r, "number")
	req.Email = r.Header.Get("email")

	acct, err := call(req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(acctResp(acct)); err != nil {
		h.Log.Err(err).Str("method", method).Msg("error encoding response")
	}
}

func (h *httpHandler) Balance(w http.ResponseWriter, r *http.Request) {
	req := BalanceReq{
		Number: chi.URLParam(r, "number"),
		Email:  r.Header.Get("email"),
	}
	bal, err := h.Svc.Balance(req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}

	resp := balanceJSONResp{Balance: *bal}
	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(resp); err != nil {
		h.Log.Err(err).Str("method", "balance").Msg("error encoding response")
	}
}

func (h *httpHandler) Statement(w http.ResponseWriter, r *http.Request) {
	req := StatementReq{
		Number: chi.URLParam(r, "number"),
		Email:  r.Header.Get("email"),
	}
	w.Header().Set("Content-Type", "application/pdf")
	if err := h.Svc.Statement(w, req); err != nil {
		w.Header().Del("Content-Type")
		WriteHTTPError(w, err)
	}
}

func (h *httpHandler) CloseAccount(w http.ResponseWriter, r *http.Request) {
	req := CloseAccountReq{
		Number: chi.URLParam(r, "number"),
		Email:  r.Header.Get("email"),
	}
	if err := h.Svc.CloseAccount(req); err != nil {
		WriteHTTPError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func acctResp(acct *Account) accountJSONResp {
	return accountJSONResp{
		Number:  acct.Number,
		Balance: acct.Balance,
		Tier:    acct.Tier.String(),
	}
}

func WriteHTTPError(w http.ResponseWriter, err error) {
	var ne error
	defer func() {
		if ne != nil {
			log.Error().
				Err(ne).
				Msg("error response encoding failed")
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	errnf := &ErrNotFound{}
	errbr := &ErrBadRequest{}
	errae := &ErrAccountExists{}
	errle := &ErrLimitExceeded{}
	errib := &ErrInsufficientBalance{}
	errsu := &ErrStorageUnavailable{}
	errlnc := &ErrLimitsNotConfigured{}
	switch {
	case errors.As(err, errnf):
		w.WriteHeader(http.StatusNotFound)
		ne = json.NewEncoder(w).Encode(errnf)
	case errors.As(err, errbr):
		w.WriteHeader(http.StatusBadRequest)
		ne = json.NewEncoder(w).Encode(errbr)
	case errors.As(err, errae):
		w.WriteHeader(http.StatusConflict)
		ne = json.NewEncoder(w).Encode(errae)
	case errors.As(err, errle):
		w.WriteHeader(http.StatusBadRequest)
		ne = json.NewEncoder(w).Encode(map[string]string{
			"message":     errle.Error(),
			"scope":       errle.Scope.String(),
			"direction":   errle.Direction.String(),
			"attempted":   errle.Attempted.String(),
			"windowTotal": errle.WindowTotal.String(),
			"cap":         errle.Cap.String(),
		})
	case errors.As(err, errib):
		w.WriteHeader(http.StatusBadRequest)
		ne = json.NewEncoder(w).Encode(map[string]string{
			"message":   errib.Error(),
			"balance":   errib.Balance.String(),
			"requested": errib.Requested.String(),
		})
	case errors.As(err, errsu), errors.Is(err, ErrOverCapacity):
		w.WriteHeader(http.StatusServiceUnavailable)
		ne = json.NewEncoder(w).Encode(map[string]string{
			"message": "temporarily unavailable",
		})
	case errors.As(err, errlnc):
		// invariant violation, reported as a server fault
		w.WriteHeader(http.StatusInternalServerError)
		ne = json.NewEncoder(w).Encode(map[string]string{
			"message": "server error",
		})
	default:
		w.WriteHeader(http.StatusInternalServerError)
		ne = json.NewEncoder(w).Encode(map[string]string{
			"message": "server error",
		})
	}
}

func HTTPNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	resp := map[string]string{
		"path": r.URL.Path,
	}
	json.NewEncoder(w).Encode(resp)
}
