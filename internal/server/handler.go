package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/KapuKapu/bimiTool/internal/config"
	"github.com/KapuKapu/bimiTool/internal/store"
	"github.com/KapuKapu/bimiTool/internal/summary"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type handler struct {
	router       *mux.Router
	storeHandler store.LedgerHandler
	mailer       *summary.Mailer
	config       *config.Config
	validate     *validator.Validate
	logger       *logrus.Logger
}

func newHandler(storeHandler store.LedgerHandler, cfg *config.Config, logger *logrus.Logger) *handler {
	return &handler{
		router:       mux.NewRouter(),
		storeHandler: storeHandler,
		mailer:       summary.NewMailer(cfg),
		config:       cfg,
		validate:     validator.New(),
		logger:       logger,
	}
}

func (h *handler) initRouter(m MiddlewareDispatcher) {
	// Provide all middlewares from one method
	h.router.Use(m.populate()...)

	h.router.HandleFunc("/accounts", h.accountsGet).Methods("GET")
	h.router.HandleFunc("/accounts", h.accountsPost).Methods("POST")
	h.router.HandleFunc("/accounts/{id:[0-9]+}", h.accountPut).Methods("PUT")
	h.router.HandleFunc("/accounts/{id:[0-9]+}", h.accountDelete).Methods("DELETE")
	h.router.HandleFunc("/accounts/{id:[0-9]+}/credit", h.creditPost).Methods("POST")
	h.router.HandleFunc("/accounts/{id:[0-9]+}/consume", h.consumePost).Methods("POST")
	h.router.HandleFunc("/accounts/{id:[0-9]+}/transactions", h.transactionsGet).Methods("GET")
	h.router.HandleFunc("/accounts/{id:[0-9]+}/statement", h.statementGet).Methods("GET")

	h.router.HandleFunc("/drinks", h.drinksGet).Methods("GET")
	h.router.HandleFunc("/drinks", h.drinksPost).Methods("POST")
	h.router.HandleFunc("/drinks/{id:[0-9]+}", h.drinkPut).Methods("PUT")
	h.router.HandleFunc("/drinks/{id:[0-9]+}", h.drinkDelete).Methods("DELETE")

	h.router.HandleFunc("/transactions/{id:[0-9]+}", h.transactionDelete).Methods("DELETE")

	h.router.HandleFunc("/kings", h.kingsGet).Methods("GET")
	h.router.HandleFunc("/balances", h.balancesGet).Methods("GET")
	h.router.HandleFunc("/mail/summary", h.summaryMailGet).Methods("GET")
	h.router.HandleFunc("/mail/credit", h.creditMailGet).Methods("GET")

	h.router.PathPrefix("/").HandlerFunc(h.defaultHandler)
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *handler) defaultHandler(w http.ResponseWriter, r *http.Request) {
	sendErrorResponse(w, "Not found", http.StatusNotFound)
}

// sendStoreError maps store errors to status codes.
func (h *handler) sendStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *store.NotFoundError
	if errors.As(err, &notFound) {
		sendErrorResponse(w, notFound.Error(), http.StatusNotFound)
		return
	}
	h.logger.WithField("request_id", requestIDFrom(r.Context())).Error("Store error: ", err)
	sendErrorResponse(w, "Internal server error", http.StatusInternalServerError)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

func (h *handler) withID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := pathID(r)
	if !ok {
		sendErrorResponse(w, "Invalid id", http.StatusBadRequest)
	}
	return id, ok
}

func (h *handler) accountsGet(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.storeHandler.ListAccounts(r.Context())
	if err != nil {
		h.sendStoreError(w, r, err)
		return
	}
	sendJSON(w, accounts, http.StatusOK)
}

func (h *handler) accountsPost(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	id, err := h.storeHandler.AddAccount(r.Context(), req.Name, req.Credit)
	if err != nil {
		h.sendStoreError(w, r, err)
		return
	}
	sendJSON(w, IDResponse{ID: id}, http.StatusCreated)
}

func (h *handler) accountPut(w http.ResponseWriter, r *http.Request) {
	id, ok := h.withID(w, r)
	if !ok {
		return
	}
	var req renameRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	if err := h.storeHandler.SetAccountName(r.Context(), id, req.Name); err != nil {
		h.sendStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) accountDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.withID(w, r)
	if !ok {
		return
	}
	if err := h.storeHandler.DeleteAccount(r.Context(), id); err != nil {
		h.sendStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) creditPost(w http.ResponseWriter, r *http.Request) {
	id, ok := h.withID(w, r)
	if !ok {
		return
	}
	var req creditRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	if err := h.storeHandler.AddCredit(r.Context(), id, req.Amount); err != nil {
		h.sendStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) consumePost(w http.ResponseWriter, r *http.Request) {
	id, ok := h.withID(w, r)
	if !ok {
		return
	}
	var req consumeRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	groupID, err := h.storeHandler.ConsumeDrinks(r.Context(), id, req.lineItems())
	if err != nil {
		h.sendStoreError(w, r, err)
		return
	}
	sendJSON(w, GroupResponse{GroupID: groupID}, http.StatusCreated)
}

func (h *handler) transactionsGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.withID(w, r)
	if !ok {
		return
	}
	rows, err := h.storeHandler.Transactions(r.Context(), id)
	if err != nil {
		h.sendStoreError(w, r, err)
		return
	}
	sendJSON(w, rows, http.StatusOK)
}

func (h *handler) statementGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.withID(w, r)
	if !ok {
		return
	}
	rows, err := h.storeHandler.Transactions(r.Context(), id)
	if err != nil {
		h.sendStoreError(w, r, err)
		return
	}
	lines := summary.Statement(rows, h.config.Deposit)
	resp := make([]StatementLineResponse, len(lines))
	for i, line := range lines {
		resp[i] = StatementLineResponse{
			StatementLine: line,
			Display:       summary.FormatMoney(line.Amount, h.config.Currency),
		}
	}
	sendJSON(w, resp, http.StatusOK)
}

func (h *handler) drinksGet(w http.ResponseWriter, r *http.Request) {
	drinks, err := h.storeHandler.ListDrinks(r.Context())
	if err != nil {
		h.sendStoreError(w, r, err)
		return
	}
	sendJSON(w, drinks, http.StatusOK)
}

func (h *handler) drinksPost(w http.ResponseWriter, r *http.Request) {
	var req drinkRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	id, err := h.storeHandler.AddDrink(r.Context(), req.spec())
	if err != nil {
		h.sendStoreError(w, r, err)
		return
	}
	sendJSON(w, IDResponse{ID: id}, http.StatusCreated)
}

func (h *handler) drinkPut(w http.ResponseWriter, r *http.Request) {
	id, ok := h.withID(w, r)
	if !ok {
		return
	}
	var req drinkRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	if err := h.storeHandler.SetDrink(r.Context(), id, req.spec()); err != nil {
		h.sendStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) drinkDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.withID(w, r)
	if !ok {
		return
	}
	if err := h.storeHandler.DeleteDrink(r.Context(), id); err != nil {
		h.sendStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) transactionDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.withID(w, r)
	if !ok {
		return
	}
	if err := h.storeHandler.UndoTransaction(r.Context(), id); err != nil {
		h.sendStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) kingsGet(w http.ResponseWriter, r *http.Request) {
	kings, err := h.storeHandler.Kings(r.Context())
	if err != nil {
		h.sendStoreError(w, r, err)
		return
	}
	sendJSON(w, kings, http.StatusOK)
}

func (h *handler) balancesGet(w http.ResponseWriter, r *http.Request) {
	balances, err := h.storeHandler.Balances(r.Context())
	if err != nil {
		h.sendStoreError(w, r, err)
		return
	}
	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = BalanceResponse{
			AccountID: b.AccountID,
			Name:      b.Name,
			Balance:   b.Balance,
			Display:   summary.FormatMoney(b.Balance-h.config.Deposit, h.config.Currency),
		}
	}
	sendJSON(w, resp, http.StatusOK)
}

func (h *handler) summaryMailGet(w http.ResponseWriter, r *http.Request) {
	kings, err := h.storeHandler.Kings(r.Context())
	if err != nil {
		h.sendStoreError(w, r, err)
		return
	}
	balances, err := h.storeHandler.Balances(r.Context())
	if err != nil {
		h.sendStoreError(w, r, err)
		return
	}
	h.sendMail(w, h.mailer.SummaryMail(kings, balances))
}

// creditMailGet expects ?account=<id>&amount=<minor units>.
func (h *handler) creditMailGet(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(r.URL.Query().Get("account"), 10, 64)
	if err != nil {
		sendErrorResponse(w, "Invalid account", http.StatusBadRequest)
		return
	}
	amount, err := strconv.ParseInt(r.URL.Query().Get("amount"), 10, 64)
	if err != nil {
		sendErrorResponse(w, "Invalid amount", http.StatusBadRequest)
		return
	}
	accounts, err := h.storeHandler.ListAccounts(r.Context())
	if err != nil {
		h.sendStoreError(w, r, err)
		return
	}
	for _, a := range accounts {
		if a.ID == accountID {
			h.sendMail(w, h.mailer.CreditMail(a.Name, amount))
			return
		}
	}
	sendErrorResponse(w, "Account not found", http.StatusNotFound)
}

func (h *handler) sendMail(w http.ResponseWriter, mail summary.Mail) {
	sendJSON(w, MailResponse{
		Mail:        mail,
		Mailto:      summary.MailtoURL(mail),
		MailProgram: h.config.MailProgram,
	}, http.StatusOK)
}
