package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backoffice_ledger/internal/apperrors"
	"github.com/retailpos/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/retailpos/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/retailpos/backoffice_ledger/internal/core/ports/services"
	"github.com/retailpos/backoffice_ledger/internal/dto"
	"github.com/retailpos/backoffice_ledger/internal/middleware"
)

// ledgerService records monetary events as balanced journal postings. Every
// mutation consults the period service first; no write ever lands against a
// closed period.
type ledgerService struct {
	txnRepo   portsrepo.TransactionRepositoryFacade
	periodSvc portssvc.PeriodReaderSvc
	policy    domain.StatusPolicy
}

// NewLedgerService creates a new LedgerService. A nil policy selects
// domain.DefaultStatusPolicy.
func NewLedgerService(txnRepo portsrepo.TransactionRepositoryFacade, periodSvc portssvc.PeriodReaderSvc, policy domain.StatusPolicy) portssvc.LedgerSvcFacade {
	if policy == nil {
		policy = domain.DefaultStatusPolicy()
	}
	return &ledgerService{
		txnRepo:   txnRepo,
		periodSvc: periodSvc,
		policy:    policy,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// validateEntries checks the whole entry collection before any write: at
// least two lines, strictly positive amounts, known categories, and the
// debit side summing to the credit side.
func (s *ledgerService) validateEntries(entries []dto.CreateEntryRequest) error {
	if len(entries) < 2 {
		return fmt.Errorf("%w: a transaction needs at least two journal entries", apperrors.ErrValidation)
	}

	debitsSum := decimal.Zero
	creditsSum := decimal.Zero
	for i, e := range entries {
		if e.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: entry %d amount must be positive", apperrors.ErrValidation, i)
		}
		if !domain.ValidAccountCategory(e.AccountCategory) {
			return fmt.Errorf("%w: entry %d has unknown account category %q", apperrors.ErrValidation, i, e.AccountCategory)
		}
		switch e.EntryType {
		case domain.Debit:
			debitsSum = debitsSum.Add(e.Amount)
		case domain.Credit:
			creditsSum = creditsSum.Add(e.Amount)
		default:
			return fmt.Errorf("%w: entry %d has unknown entry type %q", apperrors.ErrValidation, i, e.EntryType)
		}
	}

	if !debitsSum.Equal(creditsSum) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s",
			apperrors.ErrUnbalancedEntries, debitsSum.String(), creditsSum.String())
	}
	return nil
}

// guardPeriodWritable rejects with ErrPeriodClosed unless the period exists
// and is open. A missing period surfaces as ErrNotFound from the lookup.
func (s *ledgerService) guardPeriodWritable(ctx context.Context, periodID string) error {
	period, err := s.periodSvc.GetPeriodByID(ctx, periodID)
	if err != nil {
		return err
	}
	if !period.IsWritable() {
		return fmt.Errorf("%w: period %q", apperrors.ErrPeriodClosed, period.Name)
	}
	return nil
}

// RecordTransaction validates the request and persists the transaction with
// all of its entries as one atomic unit.
func (s *ledgerService) RecordTransaction(ctx context.Context, req dto.RecordTransactionRequest, creatorID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Description == "" {
		return nil, fmt.Errorf("%w: transaction description is required", apperrors.ErrValidation)
	}
	if err := s.validateEntries(req.Entries); err != nil {
		return nil, err
	}
	if err := s.guardPeriodWritable(ctx, req.PeriodID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	transactionID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorID,
	}

	entries := make([]domain.JournalEntry, len(req.Entries))
	amount := decimal.Zero
	for i, e := range req.Entries {
		entries[i] = domain.JournalEntry{
			EntryID:         uuid.NewString(),
			TransactionID:   transactionID,
			AccountCategory: e.AccountCategory,
			Amount:          e.Amount,
			EntryType:       e.EntryType,
			Description:     e.Description,
			AuditFields:     audit,
		}
		if e.EntryType == domain.Debit {
			amount = amount.Add(e.Amount)
		}
	}

	txn := domain.Transaction{
		TransactionID: transactionID,
		PeriodID:      req.PeriodID,
		Amount:        amount,
		Status:        domain.TxnPending,
		Description:   req.Description,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		AuditFields:   audit,
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn, entries); err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("period_id", req.PeriodID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction recorded", slog.String("transaction_id", transactionID), slog.String("period_id", req.PeriodID), slog.String("amount", amount.String()))
	txn.Entries = entries
	return &txn, nil
}

// ChangeStatus moves a transaction to a new review status. The owning
// period must be open and the transition must be permitted by the policy.
func (s *ledgerService) ChangeStatus(ctx context.Context, transactionID string, newStatus domain.TransactionStatus, requesterID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.ValidTransactionStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown transaction status %q", apperrors.ErrValidation, newStatus)
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.guardPeriodWritable(ctx, txn.PeriodID); err != nil {
		logger.Warn("Status change rejected by period gate", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return nil, err
	}

	if !s.policy.Allows(txn.Status, newStatus) {
		return nil, fmt.Errorf("%w: status transition %s -> %s is not permitted", apperrors.ErrValidation, txn.Status, newStatus)
	}

	now := time.Now().UTC()
	if err := s.txnRepo.UpdateTransactionStatus(ctx, transactionID, newStatus, requesterID, now); err != nil {
		logger.Error("Failed to update transaction status", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to update transaction status: %w", err)
	}

	txn.Status = newStatus
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = requesterID

	logger.Info("Transaction status changed", slog.String("transaction_id", transactionID), slog.String("status", string(newStatus)))
	return txn, nil
}

// DeleteTransaction removes a transaction and its entries atomically, only
// while the owning period is open.
func (s *ledgerService) DeleteTransaction(ctx context.Context, transactionID string, requesterID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if err := s.guardPeriodWritable(ctx, txn.PeriodID); err != nil {
		logger.Warn("Delete rejected by period gate", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return err
	}

	if err := s.txnRepo.DeleteTransaction(ctx, transactionID); err != nil {
		logger.Error("Failed to delete transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID), slog.String("deleted_by", requesterID))
	return nil
}

// GetTransactionByID retrieves a transaction with its entries populated.
func (s *ledgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	entries, err := s.txnRepo.FindEntriesByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve entries for transaction %s: %w", transactionID, err)
	}
	txn.Entries = entries
	return txn, nil
}

// ListByPeriod retrieves a paginated list of transactions for a period.
func (s *ledgerService) ListByPeriod(ctx context.Context, periodID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, nextToken, err := s.txnRepo.ListTransactionsByPeriod(ctx, periodID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list transactions by period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	resp := &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}

	logger.Debug("Transactions listed for period", slog.String("period_id", periodID), slog.Int("count", len(txns)))
	return resp, nil
}
