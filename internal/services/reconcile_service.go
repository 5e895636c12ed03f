package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"depot-backend/internal/cache"
	"depot-backend/internal/metrics"
	"depot-backend/internal/models"
	"depot-backend/internal/repositories"
	"depot-backend/internal/timeutil"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AlertSink receives operational alerts (integrity violations, batch runs).
// The monitoring dashboard implements it; wiring is optional.
type AlertSink interface {
	PushAlert(severity, alertType, message string)
}

// ReconcileService applies corrections the resolver marked as safe. The
// resolver only reports; every write that changes a request or the yard
// goes through here, one transaction per container.
type ReconcileService struct {
	DB          *pgxpool.Pool
	Resolver    *StateResolverService
	RequestRepo *repositories.ServiceRequestRepository
	YardRepo    *repositories.YardRepository

	alerts AlertSink
}

func NewReconcileService(
	db *pgxpool.Pool,
	resolver *StateResolverService,
	requestRepo *repositories.ServiceRequestRepository,
	yardRepo *repositories.YardRepository,
) *ReconcileService {
	return &ReconcileService{
		DB:          db,
		Resolver:    resolver,
		RequestRepo: requestRepo,
		YardRepo:    yardRepo,
	}
}

// SetAlertSink wires the monitoring dashboard for integrity alerts
func (s *ReconcileService) SetAlertSink(sink AlertSink) {
	s.alerts = sink
}

// ApplyCorrection fixes one container's auto-correctable mismatch: the
// active request moves to the canonical status, the slot cache is rebuilt
// and an audit entry lands on the request's history, all in one
// transaction. Corrections for the same container are serialized by a
// per-container lock; flagged-only findings are refused.
func (s *ReconcileService) ApplyCorrection(ctx context.Context, containerNo string, actorID int) (*models.CorrectionResult, error) {
	locked, release := cache.AcquireContainerLock(ctx, containerNo)
	if !locked {
		return nil, fmt.Errorf("a correction for container %s is already in progress", containerNo)
	}
	defer release()

	res, err := s.Resolver.Resolve(ctx, containerNo)
	if err != nil {
		var integrity *models.IntegrityError
		if errors.As(err, &integrity) {
			s.alertIntegrity(integrity)
		}
		return nil, err
	}

	hasDrift := false
	for _, inc := range res.Inconsistencies {
		if inc.Rule == models.RuleSlotCacheDrift {
			hasDrift = true
		}
	}

	if !res.AutoCorrectable && !hasDrift {
		if res.Consistent() {
			return nil, fmt.Errorf("container %s is already consistent", containerNo)
		}
		return nil, fmt.Errorf("container %s is flagged for manual review and cannot be auto-corrected", containerNo)
	}

	active, err := s.YardRepo.GetActivePlacement(ctx, containerNo)
	if err != nil {
		return nil, err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	result := &models.CorrectionResult{ContainerNo: containerNo}

	if res.AutoCorrectable {
		requests, err := s.RequestRepo.ListByContainer(ctx, containerNo)
		if err != nil {
			return nil, err
		}
		var activeReq *models.ServiceRequest
		for i := range requests {
			if !models.IsTerminalStatus(requests[i].Status) {
				activeReq = &requests[i]
				break
			}
		}
		if activeReq == nil {
			return nil, fmt.Errorf("container %s has no active request to correct", containerNo)
		}

		rule := res.Inconsistencies[0].Rule
		entry := models.HistoryEntry{
			PreviousStatus: activeReq.Status,
			NewStatus:      res.CanonicalStatus,
			Reason:         fmt.Sprintf("automatic correction (%s)", rule),
			Timestamp:      timeutil.Now(),
			ActorID:        actorID,
		}
		if err := s.RequestRepo.UpdateStatusTx(ctx, tx, activeReq.ID, res.CanonicalStatus, entry); err != nil {
			return nil, err
		}
		result.PreviousStatus = activeReq.Status
		result.NewStatus = res.CanonicalStatus
		result.Rule = rule
	} else {
		result.Rule = models.RuleSlotCacheDrift
	}

	if active != nil {
		if err := s.YardRepo.RebuildSlotCacheTx(ctx, tx, active.SlotID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	cache.InvalidateYardCaches(ctx)
	metrics.ReconcileOutcomes.WithLabelValues("fixed").Inc()
	log.Printf("[Reconcile] corrected container %s: %s -> %s (%s)",
		containerNo, result.PreviousStatus, result.NewStatus, result.Rule)
	return result, nil
}

// batchOutcome is what the batch loop does with one resolved container.
type batchOutcome int

const (
	outcomeFix batchOutcome = iota
	outcomeFlag
	outcomeSkip
)

// classifyResolution maps a resolution to its batch outcome. Only
// auto-correctable findings are fixed; flagged ones wait for an operator.
func classifyResolution(res *models.Resolution) batchOutcome {
	switch {
	case res.AutoCorrectable:
		return outcomeFix
	case !res.Consistent():
		return outcomeFlag
	default:
		return outcomeSkip
	}
}

// The record helpers keep the batch accounting in one place.

func recordFix(report *models.ReconcileReport, fix *models.CorrectionResult) {
	report.Fixed++
	report.Fixes = append(report.Fixes, *fix)
}

func recordFlag(report *models.ReconcileReport, res *models.Resolution) {
	report.Flagged++
	report.Flags = append(report.Flags, *res)
}

func recordSkip(report *models.ReconcileReport) {
	report.Skipped++
}

func recordError(report *models.ReconcileReport, containerNo string, err error) {
	report.Errors = append(report.Errors, models.ReconcileItemError{
		ContainerNo: containerNo,
		Error:       err.Error(),
	})
}

// ReconcileBatch resolves every container with a non-terminal request or an
// active placement, applies the safe fixes and reports the rest. One
// container's failure, including a fatal integrity violation, only skips
// that container; the batch always runs to completion.
func (s *ReconcileService) ReconcileBatch(ctx context.Context, actorID int) *models.ReconcileReport {
	report := &models.ReconcileReport{}

	containers, err := s.RequestRepo.ListActiveContainers(ctx)
	if err != nil {
		recordError(report, "", err)
		return report
	}

	for _, containerNo := range containers {
		report.Scanned++

		res, err := s.Resolver.Resolve(ctx, containerNo)
		if err != nil {
			var integrity *models.IntegrityError
			if errors.As(err, &integrity) {
				s.alertIntegrity(integrity)
			}
			recordError(report, containerNo, err)
			metrics.ReconcileOutcomes.WithLabelValues("error").Inc()
			continue
		}

		switch classifyResolution(res) {
		case outcomeFix:
			fix, err := s.ApplyCorrection(ctx, containerNo, actorID)
			if err != nil {
				recordError(report, containerNo, err)
				metrics.ReconcileOutcomes.WithLabelValues("error").Inc()
				continue
			}
			recordFix(report, fix)

		case outcomeFlag:
			recordFlag(report, res)
			metrics.ReconcileOutcomes.WithLabelValues("flagged").Inc()

		default:
			recordSkip(report)
			metrics.ReconcileOutcomes.WithLabelValues("skipped").Inc()
		}
	}

	metrics.ReconcileRuns.Inc()
	log.Printf("[Reconcile] batch done: scanned=%d fixed=%d skipped=%d flagged=%d errors=%d",
		report.Scanned, report.Fixed, report.Skipped, report.Flagged, len(report.Errors))
	if s.alerts != nil {
		s.alerts.PushAlert("info", "reconcile_batch",
			fmt.Sprintf("batch reconciliation: %d fixed, %d skipped, %d flagged", report.Fixed, report.Skipped, report.Flagged))
	}
	return report
}

// IntegrityReport scans the whole yard for duplicate-occupancy violations
func (s *ReconcileService) IntegrityReport(ctx context.Context) ([]models.IntegrityError, error) {
	violations, err := s.YardRepo.FindDuplicateOccupied(ctx)
	if err != nil {
		return nil, err
	}
	for i := range violations {
		s.alertIntegrity(&violations[i])
	}
	return violations, nil
}

func (s *ReconcileService) alertIntegrity(e *models.IntegrityError) {
	metrics.IntegrityViolations.Inc()
	log.Printf("[Reconcile] INTEGRITY: %v", e)
	if s.alerts != nil {
		s.alerts.PushAlert("critical", "integrity_violation", e.Error())
	}
}
