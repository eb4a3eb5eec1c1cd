package server

import (
	"encoding/json"
	"net/http"

	"github.com/KapuKapu/bimiTool/internal/summary"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type IDResponse struct {
	ID int64 `json:"id"`
}

type GroupResponse struct {
	GroupID int64 `json:"groupId"`
}

type StatementLineResponse struct {
	summary.StatementLine
	Display string `json:"display"`
}

type BalanceResponse struct {
	AccountID int64  `json:"accountId"`
	Name      string `json:"name"`
	Balance   int64  `json:"balance"`
	Display   string `json:"display"`
}

type MailResponse struct {
	summary.Mail
	Mailto      string `json:"mailto"`
	MailProgram string `json:"mailProgram,omitempty"`
}

func sendJSON(w http.ResponseWriter, payload interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func sendErrorResponse(w http.ResponseWriter, message string, code int) {
	sendJSON(w, ErrorResponse{Error: message}, code)
}
