package handlers

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ssm-mz/dispatch-api/audit"
	"github.com/ssm-mz/dispatch-api/identity"
	"github.com/ssm-mz/dispatch-api/models"
	"github.com/ssm-mz/dispatch-api/visibility"
)

// AuditTrail exported for testing purposes
type AuditTrail struct {
	Service *audit.Service
}

// visible returns the slice of the trail the actor's audit view allows
func (a AuditTrail) visible(ctx context.Context, actor *models.AdminUser) ([]models.AuditLog, error) {
	switch visibility.Resolve(actor).Audit() {
	case visibility.AuditAll:
		return a.Service.All(ctx)
	case visibility.AuditCompany:
		return a.Service.ByCompany(ctx, actor.CompanyID)
	case visibility.AuditOwn:
		return a.Service.ByUser(ctx, actor.ID)
	}
	return nil, fmt.Errorf("audit: %w", models.ErrVisibilityViolation)
}

// AuditHandler returns the visible audit trail, newest first
func (a AuditTrail) AuditHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := a.visible(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		fail(w, "failed to get audit trail", err)
		return
	}
	if entries == nil {
		entries = []models.AuditLog{}
	}
	writeJSON(w, http.StatusOK, entries)
}

var exportHeader = []string{"id", "timestamp", "userId", "userName", "userRole", "companyId",
	"action", "resourceId", "severity", "details", "integrityHash", "verified"}

// ExportHandler streams the visible audit trail as CSV and records the export
func (a AuditTrail) ExportHandler(w http.ResponseWriter, r *http.Request) {
	actor := identity.FromContext(r.Context())
	entries, err := a.visible(r.Context(), actor)
	if err != nil {
		fail(w, "failed to export audit trail", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="audit-%s.csv"`, time.Now().UTC().Format("20060102")))
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	cw.Write(exportHeader)
	for _, e := range entries {
		cw.Write([]string{
			e.ID,
			e.Timestamp.UTC().Format(time.RFC3339Nano),
			e.UserID,
			e.UserName,
			string(e.UserRole),
			e.CompanyID,
			string(e.Action),
			e.ResourceID,
			string(e.Severity),
			e.Details,
			e.IntegrityHash,
			strconv.FormatBool(audit.Verify(e)),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		zap.S().Errorw("failed to write audit export", "error", err)
		return
	}

	a.Service.Record(r.Context(), audit.Event{
		Actor:   models.ActorOf(actor),
		Action:  models.ActionDataExportExcel,
		Details: fmt.Sprintf("Exportação do registo de auditoria (%d entradas)", len(entries)),
		IP:      r.RemoteAddr,
	})
}
