package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/financial-planner-server/internal/http/middleware"
	"github.com/rogerio-castellano/financial-planner-server/internal/log"
)

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /api/health [get]
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// LinkTokenHandler godoc
// @Summary Create a link token for the authenticated user
// @Tags link
// @Security BearerAuth
// @Produce json
// @Success 200 {object} LinkTokenResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/link_token [get]
func (s *Server) LinkTokenHandler(w http.ResponseWriter, r *http.Request) {
	token, err := s.planner.LinkToken(r.Context(), middleware.GetUserID(r))
	if err != nil {
		s.writeError(w, r, log.OpLinkToken, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, LinkTokenResponse{LinkToken: token})
}

// SetAccessTokenHandler godoc
// @Summary Exchange a public token and store the access token
// @Tags link
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SetAccessTokenRequest true "public token returned by Link"
// @Success 200 {object} SetAccessTokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/set_access_token [post]
func (s *Server) SetAccessTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req SetAccessTokenRequest
	if err := readJSON(w, r, &req); err != nil {
		_ = writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid input"})
		return
	}

	userID := middleware.GetUserID(r)
	itemID, err := s.planner.SetPublicToken(r.Context(), userID, req.PublicToken)
	if err != nil {
		s.writeError(w, r, log.OpExchangeToken, err)
		return
	}

	s.logger.InfoContext(r.Context(), "institution linked", log.FieldUserID, userID, log.FieldItemID, itemID)
	_ = writeJSON(w, http.StatusOK, SetAccessTokenResponse{ItemID: itemID})
}

// UnlinkHandler godoc
// @Summary Unlink the institution and forget the stored access token
// @Tags link
// @Security BearerAuth
// @Produce json
// @Success 200 {object} UnlinkResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "No institution linked"
// @Failure 502 {object} ErrorResponse
// @Router /api/item [delete]
func (s *Server) UnlinkHandler(w http.ResponseWriter, r *http.Request) {
	itemID, err := s.planner.Unlink(r.Context(), middleware.GetUserID(r))
	if err != nil {
		s.writeError(w, r, log.OpUnlink, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, UnlinkResponse{ItemID: itemID})
}

// BankAccountsHandler godoc
// @Summary List the balances of every linked account
// @Tags accounts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} BankAccountsResult
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "No institution linked"
// @Failure 502 {object} ErrorResponse
// @Router /api/BankAccounts [get]
func (s *Server) BankAccountsHandler(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.planner.BankAccounts(r.Context(), middleware.GetUserID(r))
	if err != nil {
		s.writeError(w, r, log.OpBankAccounts, err)
		return
	}

	result := BankAccountsResult{Accounts: make([]BankAccountResponse, 0, len(accounts))}
	for _, a := range accounts {
		result.Accounts = append(result.Accounts, toBankAccountResponse(a))
	}
	_ = writeJSON(w, http.StatusOK, result)
}

// HoldingsHandler godoc
// @Summary List investment holdings
// @Tags accounts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} HoldingsResult
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "No institution linked"
// @Failure 502 {object} ErrorResponse
// @Router /api/holdings [get]
func (s *Server) HoldingsHandler(w http.ResponseWriter, r *http.Request) {
	holdings, err := s.planner.Holdings(r.Context(), middleware.GetUserID(r))
	if err != nil {
		s.writeError(w, r, log.OpHoldings, err)
		return
	}

	result := HoldingsResult{Holdings: make([]HoldingResponse, 0, len(holdings))}
	for _, h := range holdings {
		result.Holdings = append(result.Holdings, toHoldingResponse(h))
	}
	_ = writeJSON(w, http.StatusOK, result)
}

// CashFlowHandler godoc
// @Summary Money in and out during the previous calendar month
// @Tags cashflow
// @Security BearerAuth
// @Produce json
// @Success 200 {object} CashFlowResult "accounts is [NetCashInflow, NetCashOutflow]"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "No institution linked"
// @Failure 502 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Router /api/cashflow [get]
func (s *Server) CashFlowHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := s.planner.CashFlowAccounts(r.Context(), middleware.GetUserID(r))
	if err != nil {
		s.writeError(w, r, log.OpCashFlow, err)
		return
	}

	result := CashFlowResult{StartDate: summary.StartDate, EndDate: summary.EndDate}
	for _, a := range summary.Accounts() {
		result.Accounts = append(result.Accounts, toFinancialAccountResponse(a))
	}
	_ = writeJSON(w, http.StatusOK, result)
}
