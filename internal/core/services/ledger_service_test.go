package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/retailpos/backoffice_ledger/internal/apperrors"
	"github.com/retailpos/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/retailpos/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/retailpos/backoffice_ledger/internal/core/ports/services"
	"github.com/retailpos/backoffice_ledger/internal/core/services"
	"github.com/retailpos/backoffice_ledger/internal/dto"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByPeriod(ctx context.Context, periodID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, periodID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, entries []domain.JournalEntry) error {
	args := m.Called(ctx, txn, entries)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, transactionID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// --- Mock PeriodReaderSvc (as used by LedgerService) ---
type MockPeriodReaderSvc struct {
	mock.Mock
}

var _ portssvc.PeriodReaderSvc = (*MockPeriodReaderSvc)(nil)

func (m *MockPeriodReaderSvc) GetPeriodByID(ctx context.Context, periodID string) (*domain.FinancialPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialPeriod), args.Error(1)
}

func (m *MockPeriodReaderSvc) ListPeriods(ctx context.Context) ([]domain.FinancialPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialPeriod), args.Error(1)
}

func (m *MockPeriodReaderSvc) IsWritable(ctx context.Context, periodID string) (bool, error) {
	args := m.Called(ctx, periodID)
	return args.Bool(0), args.Error(1)
}

// --- Test Suite Setup ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockTxnRepo   *MockTransactionRepository
	mockPeriodSvc *MockPeriodReaderSvc
	service       portssvc.LedgerSvcFacade
	userID        string
	openPeriod    domain.FinancialPeriod
	closedPeriod  domain.FinancialPeriod
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockPeriodSvc = new(MockPeriodReaderSvc)
	suite.service = services.NewLedgerService(suite.mockTxnRepo, suite.mockPeriodSvc, nil)
	suite.userID = uuid.NewString()

	suite.openPeriod = domain.FinancialPeriod{
		PeriodID:  uuid.NewString(),
		Name:      "March 2026",
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodOpen,
	}
	suite.closedPeriod = domain.FinancialPeriod{
		PeriodID:  uuid.NewString(),
		Name:      "February 2026",
		StartDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodClosed,
	}
}

func balancedRequest(periodID string) dto.RecordTransactionRequest {
	return dto.RecordTransactionRequest{
		PeriodID:    periodID,
		Description: "Cash sale",
		Entries: []dto.CreateEntryRequest{
			{AccountCategory: domain.CategoryCash, Amount: decimal.NewFromInt(100), EntryType: domain.Debit},
			{AccountCategory: domain.CategoryRevenue, Amount: decimal.NewFromInt(100), EntryType: domain.Credit},
		},
	}
}

// --- Test Cases ---

func (suite *LedgerServiceTestSuite) TestRecordTransaction_Success() {
	ctx := context.Background()
	req := balancedRequest(suite.openPeriod.PeriodID)

	suite.mockPeriodSvc.On("GetPeriodByID", ctx, suite.openPeriod.PeriodID).Return(&suite.openPeriod, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("[]domain.JournalEntry")).Return(nil).Once()

	created, err := suite.service.RecordTransaction(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.TransactionID)
	suite.Equal(domain.TxnPending, created.Status)
	suite.True(created.Amount.Equal(decimal.NewFromInt(100)))
	suite.Len(created.Entries, 2)
	suite.Equal(suite.userID, created.CreatedBy)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockPeriodSvc.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRecordTransaction_Unbalanced() {
	ctx := context.Background()
	req := dto.RecordTransactionRequest{
		PeriodID:    suite.openPeriod.PeriodID,
		Description: "Broken posting",
		Entries: []dto.CreateEntryRequest{
			{AccountCategory: domain.CategoryCash, Amount: decimal.NewFromInt(100), EntryType: domain.Debit},
			{AccountCategory: domain.CategoryRevenue, Amount: decimal.NewFromInt(90), EntryType: domain.Credit},
		},
	}

	_, err := suite.service.RecordTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalancedEntries)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestRecordTransaction_SingleEntry() {
	ctx := context.Background()
	req := dto.RecordTransactionRequest{
		PeriodID:    suite.openPeriod.PeriodID,
		Description: "Half a posting",
		Entries: []dto.CreateEntryRequest{
			{AccountCategory: domain.CategoryCash, Amount: decimal.NewFromInt(100), EntryType: domain.Debit},
		},
	}

	_, err := suite.service.RecordTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestRecordTransaction_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.RecordTransactionRequest{
		PeriodID:    suite.openPeriod.PeriodID,
		Description: "Zero line",
		Entries: []dto.CreateEntryRequest{
			{AccountCategory: domain.CategoryCash, Amount: decimal.Zero, EntryType: domain.Debit},
			{AccountCategory: domain.CategoryRevenue, Amount: decimal.Zero, EntryType: domain.Credit},
		},
	}

	_, err := suite.service.RecordTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestRecordTransaction_ClosedPeriod() {
	ctx := context.Background()
	req := balancedRequest(suite.closedPeriod.PeriodID)

	suite.mockPeriodSvc.On("GetPeriodByID", ctx, suite.closedPeriod.PeriodID).Return(&suite.closedPeriod, nil).Once()

	_, err := suite.service.RecordTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestRecordTransaction_PeriodNotFound() {
	ctx := context.Background()
	missingID := uuid.NewString()
	req := balancedRequest(missingID)

	suite.mockPeriodSvc.On("GetPeriodByID", ctx, missingID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.RecordTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestChangeStatus_Success() {
	ctx := context.Background()
	txn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		PeriodID:      suite.openPeriod.PeriodID,
		Status:        domain.TxnPending,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockPeriodSvc.On("GetPeriodByID", ctx, suite.openPeriod.PeriodID).Return(&suite.openPeriod, nil).Once()
	suite.mockTxnRepo.On("UpdateTransactionStatus", ctx, txn.TransactionID, domain.TxnOpen, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.ChangeStatus(ctx, txn.TransactionID, domain.TxnOpen, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.TxnOpen, updated.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestChangeStatus_DisallowedTransition() {
	ctx := context.Background()
	txn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		PeriodID:      suite.openPeriod.PeriodID,
		Status:        domain.TxnSecure,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockPeriodSvc.On("GetPeriodByID", ctx, suite.openPeriod.PeriodID).Return(&suite.openPeriod, nil).Once()

	_, err := suite.service.ChangeStatus(ctx, txn.TransactionID, domain.TxnOpen, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "UpdateTransactionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestChangeStatus_ClosedPeriod() {
	ctx := context.Background()
	txn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		PeriodID:      suite.closedPeriod.PeriodID,
		Status:        domain.TxnPending,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockPeriodSvc.On("GetPeriodByID", ctx, suite.closedPeriod.PeriodID).Return(&suite.closedPeriod, nil).Once()

	_, err := suite.service.ChangeStatus(ctx, txn.TransactionID, domain.TxnOpen, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
}

func (suite *LedgerServiceTestSuite) TestChangeStatus_UnknownStatus() {
	ctx := context.Background()

	_, err := suite.service.ChangeStatus(ctx, uuid.NewString(), domain.TransactionStatus("BOGUS"), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "FindTransactionByID", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestDeleteTransaction_Success() {
	ctx := context.Background()
	txn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		PeriodID:      suite.openPeriod.PeriodID,
		Status:        domain.TxnPending,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockPeriodSvc.On("GetPeriodByID", ctx, suite.openPeriod.PeriodID).Return(&suite.openPeriod, nil).Once()
	suite.mockTxnRepo.On("DeleteTransaction", ctx, txn.TransactionID).Return(nil).Once()

	err := suite.service.DeleteTransaction(ctx, txn.TransactionID, suite.userID)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDeleteTransaction_ClosedPeriod() {
	ctx := context.Background()
	txn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		PeriodID:      suite.closedPeriod.PeriodID,
		Status:        domain.TxnVerified,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockPeriodSvc.On("GetPeriodByID", ctx, suite.closedPeriod.PeriodID).Return(&suite.closedPeriod, nil).Once()

	err := suite.service.DeleteTransaction(ctx, txn.TransactionID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "DeleteTransaction", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestGetTransactionByID_PopulatesEntries() {
	ctx := context.Background()
	txn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		PeriodID:      suite.openPeriod.PeriodID,
	}
	entries := []domain.JournalEntry{
		{EntryID: uuid.NewString(), TransactionID: txn.TransactionID, EntryType: domain.Debit},
		{EntryID: uuid.NewString(), TransactionID: txn.TransactionID, EntryType: domain.Credit},
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockTxnRepo.On("FindEntriesByTransactionID", ctx, txn.TransactionID).Return(entries, nil).Once()

	got, err := suite.service.GetTransactionByID(ctx, txn.TransactionID)

	suite.Require().NoError(err)
	suite.Len(got.Entries, 2)
}

func (suite *LedgerServiceTestSuite) TestListByPeriod_DefaultLimit() {
	ctx := context.Background()
	periodID := suite.openPeriod.PeriodID
	txns := []domain.Transaction{{TransactionID: uuid.NewString(), PeriodID: periodID}}

	suite.mockTxnRepo.On("ListTransactionsByPeriod", ctx, periodID, 20, (*string)(nil)).Return(txns, nil, nil).Once()

	page, err := suite.service.ListByPeriod(ctx, periodID, dto.ListTransactionsParams{})

	suite.Require().NoError(err)
	suite.Len(page.Transactions, 1)
	suite.Nil(page.NextToken)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
