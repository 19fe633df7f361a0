package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/api-sage/core-ledger/internal/commons"
	"github.com/api-sage/core-ledger/internal/domain"
	"github.com/api-sage/core-ledger/internal/logger"
)

type ReportingService interface {
	TransactionSummary(windowDays int) domain.TransactionSummary
	SystemStats() domain.SystemStats
	TopActiveAccounts(n, windowDays int) []domain.AccountActivity
	DailyActivity(windowDays int) []domain.DailyActivity
}

type BackupService interface {
	Backup(ctx context.Context) (string, error)
}

type ReportingController struct {
	reports ReportingService
	backups BackupService
}

func NewReportingController(reports ReportingService, backups BackupService) *ReportingController {
	return &ReportingController{reports: reports, backups: backups}
}

func (c *ReportingController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("/reports/summary", wrap(c.summary))
	mux.Handle("/reports/stats", wrap(c.stats))
	mux.Handle("/reports/top-accounts", wrap(c.topAccounts))
	mux.Handle("/reports/daily", wrap(c.daily))
	mux.Handle("/admin/backup", wrap(c.backup))
}

func (c *ReportingController) summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[domain.TransactionSummary]("method not allowed"))
		return
	}

	summary := c.reports.TransactionSummary(queryDays(r, 30))
	writeJSON(w, http.StatusOK, commons.SuccessResponse("summary computed successfully", summary))
}

func (c *ReportingController) stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[domain.SystemStats]("method not allowed"))
		return
	}

	writeJSON(w, http.StatusOK, commons.SuccessResponse("stats computed successfully", c.reports.SystemStats()))
}

func (c *ReportingController) topAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[[]domain.AccountActivity]("method not allowed"))
		return
	}

	activity := c.reports.TopActiveAccounts(queryLimit(r, 10), queryDays(r, 30))
	writeJSON(w, http.StatusOK, commons.SuccessResponse("account activity computed successfully", activity))
}

func (c *ReportingController) daily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[[]domain.DailyActivity]("method not allowed"))
		return
	}

	writeJSON(w, http.StatusOK, commons.SuccessResponse("daily activity computed successfully", c.reports.DailyActivity(queryDays(r, 30))))
}

func (c *ReportingController) backup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[struct{ Location string }]("method not allowed"))
		return
	}

	location, err := c.backups.Backup(r.Context())
	if err != nil {
		logger.Error("reporting controller backup failed", err, nil)
		writeJSON(w, http.StatusInternalServerError, commons.ErrorResponse[struct{ Location string }]("failed to create backup"))
		return
	}

	type backupResponse struct {
		Location string `json:"location"`
	}
	writeJSON(w, http.StatusOK, commons.SuccessResponse("backup created successfully", backupResponse{Location: location}))
}

func queryDays(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return fallback
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return fallback
	}
	return days
}
