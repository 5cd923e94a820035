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

// --- Mock RegisterRepository ---
type MockRegisterRepository struct {
	mock.Mock
}

var _ portsrepo.RegisterRepositoryFacade = (*MockRegisterRepository)(nil)

func (m *MockRegisterRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.RegisterSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegisterSession), args.Error(1)
}

func (m *MockRegisterRepository) ListOpenSessions(ctx context.Context) ([]domain.RegisterSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RegisterSession), args.Error(1)
}

func (m *MockRegisterRepository) SaveSession(ctx context.Context, session domain.RegisterSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockRegisterRepository) UpdateSession(ctx context.Context, session domain.RegisterSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// --- Test Suite Setup ---
type RegisterServiceTestSuite struct {
	suite.Suite
	mockRegisterRepo *MockRegisterRepository
	service          portssvc.RegisterSvcFacade
	userID           string
}

func (suite *RegisterServiceTestSuite) SetupTest() {
	suite.mockRegisterRepo = new(MockRegisterRepository)
	suite.service = services.NewRegisterService(suite.mockRegisterRepo)
	suite.userID = uuid.NewString()
}

func (suite *RegisterServiceTestSuite) openSession(cash string) *domain.RegisterSession {
	opening := domain.BalanceMap{
		domain.MethodCash: decimal.RequireFromString(cash),
	}
	return &domain.RegisterSession{
		SessionID:        uuid.NewString(),
		RegisterName:     "front-desk-1",
		Status:           domain.SessionOpen,
		OpenedBy:         suite.userID,
		OpenedAt:         time.Now().UTC(),
		OpeningBalances:  opening.Clone(),
		ExpectedBalances: opening.Clone(),
		CurrentBalances:  opening.Clone(),
		Version:          1,
	}
}

// --- Test Cases ---

func (suite *RegisterServiceTestSuite) TestOpenSession_Success() {
	ctx := context.Background()
	req := dto.OpenSessionRequest{
		RegisterName: "front-desk-1",
		OpeningBalances: map[domain.PaymentMethod]decimal.Decimal{
			domain.MethodCash: decimal.NewFromInt(500),
			domain.MethodCard: decimal.Zero,
		},
	}

	suite.mockRegisterRepo.On("SaveSession", ctx, mock.AnythingOfType("domain.RegisterSession")).Return(nil).Once()

	session, err := suite.service.OpenSession(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(session)
	suite.Equal(domain.SessionOpen, session.Status)
	suite.Equal(suite.userID, session.OpenedBy)
	suite.True(session.ExpectedBalances[domain.MethodCash].Equal(decimal.NewFromInt(500)))
	suite.True(session.CurrentBalances[domain.MethodCash].Equal(decimal.NewFromInt(500)))
	suite.Equal(int64(1), session.Version)
	suite.mockRegisterRepo.AssertExpectations(suite.T())
}

func (suite *RegisterServiceTestSuite) TestOpenSession_UnknownMethod() {
	ctx := context.Background()
	req := dto.OpenSessionRequest{
		RegisterName: "front-desk-1",
		OpeningBalances: map[domain.PaymentMethod]decimal.Decimal{
			domain.PaymentMethod("BARTER"): decimal.NewFromInt(10),
		},
	}

	_, err := suite.service.OpenSession(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRegisterRepo.AssertNotCalled(suite.T(), "SaveSession", mock.Anything, mock.Anything)
}

func (suite *RegisterServiceTestSuite) TestOpenSession_NegativeOpeningBalance() {
	ctx := context.Background()
	req := dto.OpenSessionRequest{
		RegisterName: "front-desk-1",
		OpeningBalances: map[domain.PaymentMethod]decimal.Decimal{
			domain.MethodCash: decimal.NewFromInt(-5),
		},
	}

	_, err := suite.service.OpenSession(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RegisterServiceTestSuite) TestRecordMovement_MovesExpectedAndCurrent() {
	ctx := context.Background()
	session := suite.openSession("500")

	suite.mockRegisterRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockRegisterRepo.On("UpdateSession", ctx, mock.AnythingOfType("domain.RegisterSession")).Return(nil).Once()

	updated, err := suite.service.RecordMovement(ctx, session.SessionID, domain.MethodCash, decimal.RequireFromString("1200.50"), suite.userID)

	suite.Require().NoError(err)
	suite.True(updated.ExpectedBalances[domain.MethodCash].Equal(decimal.RequireFromString("1700.50")))
	suite.True(updated.CurrentBalances[domain.MethodCash].Equal(decimal.RequireFromString("1700.50")))
	suite.Equal(int64(2), updated.Version)
	suite.mockRegisterRepo.AssertExpectations(suite.T())
}

func (suite *RegisterServiceTestSuite) TestRecordMovement_ZeroDelta() {
	ctx := context.Background()

	_, err := suite.service.RecordMovement(ctx, uuid.NewString(), domain.MethodCash, decimal.Zero, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRegisterRepo.AssertNotCalled(suite.T(), "FindSessionByID", mock.Anything, mock.Anything)
}

func (suite *RegisterServiceTestSuite) TestRecordMovement_SessionClosed() {
	ctx := context.Background()
	session := suite.openSession("500")
	session.Status = domain.SessionSettled

	suite.mockRegisterRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()

	_, err := suite.service.RecordMovement(ctx, session.SessionID, domain.MethodCash, decimal.NewFromInt(10), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrSessionClosed)
	suite.mockRegisterRepo.AssertNotCalled(suite.T(), "UpdateSession", mock.Anything, mock.Anything)
}

func (suite *RegisterServiceTestSuite) TestCloseSession_ShortCount() {
	ctx := context.Background()
	// Opening 500, sales of 1200.50 recorded, drawer counted at 1625.50:
	// the drawer is 75.00 short.
	session := suite.openSession("500")
	session.ExpectedBalances[domain.MethodCash] = decimal.RequireFromString("1700.50")
	session.CurrentBalances[domain.MethodCash] = decimal.RequireFromString("1700.50")

	req := dto.CloseSessionRequest{
		CountedBalances: map[domain.PaymentMethod]decimal.Decimal{
			domain.MethodCash: decimal.RequireFromString("1625.50"),
		},
	}

	suite.mockRegisterRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockRegisterRepo.On("UpdateSession", ctx, mock.AnythingOfType("domain.RegisterSession")).Return(nil).Once()

	closed, err := suite.service.CloseSession(ctx, session.SessionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.SessionDiscrepancyPending, closed.Status)
	suite.True(closed.Discrepancies[domain.MethodCash].Equal(decimal.RequireFromString("-75.00")))
	suite.True(closed.CurrentBalances[domain.MethodCash].Equal(decimal.RequireFromString("1625.50")))
	suite.Require().NotNil(closed.ClosedBy)
	suite.Equal(suite.userID, *closed.ClosedBy)
	suite.mockRegisterRepo.AssertExpectations(suite.T())
}

func (suite *RegisterServiceTestSuite) TestCloseSession_ExactCountSettles() {
	ctx := context.Background()
	session := suite.openSession("500")

	req := dto.CloseSessionRequest{
		CountedBalances: map[domain.PaymentMethod]decimal.Decimal{
			domain.MethodCash: decimal.NewFromInt(500),
		},
	}

	suite.mockRegisterRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockRegisterRepo.On("UpdateSession", ctx, mock.AnythingOfType("domain.RegisterSession")).Return(nil).Once()

	closed, err := suite.service.CloseSession(ctx, session.SessionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.SessionSettled, closed.Status)
	suite.True(closed.Discrepancies[domain.MethodCash].IsZero())
}

func (suite *RegisterServiceTestSuite) TestCloseSession_MethodMissingFromCount() {
	ctx := context.Background()
	// Card was expected but not counted: the whole expected amount shows up
	// as a shortfall.
	session := suite.openSession("500")
	session.ExpectedBalances[domain.MethodCard] = decimal.NewFromInt(40)
	session.CurrentBalances[domain.MethodCard] = decimal.NewFromInt(40)

	req := dto.CloseSessionRequest{
		CountedBalances: map[domain.PaymentMethod]decimal.Decimal{
			domain.MethodCash: decimal.NewFromInt(500),
		},
	}

	suite.mockRegisterRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockRegisterRepo.On("UpdateSession", ctx, mock.AnythingOfType("domain.RegisterSession")).Return(nil).Once()

	closed, err := suite.service.CloseSession(ctx, session.SessionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.SessionDiscrepancyPending, closed.Status)
	suite.True(closed.Discrepancies[domain.MethodCard].Equal(decimal.NewFromInt(-40)))
	suite.True(closed.Discrepancies[domain.MethodCash].IsZero())
}

func (suite *RegisterServiceTestSuite) TestCloseSession_SecondCloseConflicts() {
	ctx := context.Background()
	session := suite.openSession("500")
	session.Status = domain.SessionSettled

	req := dto.CloseSessionRequest{
		CountedBalances: map[domain.PaymentMethod]decimal.Decimal{
			domain.MethodCash: decimal.NewFromInt(500),
		},
	}

	suite.mockRegisterRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()

	_, err := suite.service.CloseSession(ctx, session.SessionID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrSessionClosed)
	suite.mockRegisterRepo.AssertNotCalled(suite.T(), "UpdateSession", mock.Anything, mock.Anything)
}

func (suite *RegisterServiceTestSuite) TestCloseSession_RetryWithMatchingKeyReturnsSnapshot() {
	ctx := context.Background()
	closeKey := uuid.NewString()
	session := suite.openSession("500")
	session.Status = domain.SessionSettled
	session.CloseKey = &closeKey

	req := dto.CloseSessionRequest{
		CountedBalances: map[domain.PaymentMethod]decimal.Decimal{
			domain.MethodCash: decimal.NewFromInt(500),
		},
		CloseKey: &closeKey,
	}

	suite.mockRegisterRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()

	snapshot, err := suite.service.CloseSession(ctx, session.SessionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.SessionSettled, snapshot.Status)
	suite.mockRegisterRepo.AssertNotCalled(suite.T(), "UpdateSession", mock.Anything, mock.Anything)
}

func (suite *RegisterServiceTestSuite) TestCloseSession_ConcurrentCloserLoses() {
	ctx := context.Background()
	session := suite.openSession("500")

	req := dto.CloseSessionRequest{
		CountedBalances: map[domain.PaymentMethod]decimal.Decimal{
			domain.MethodCash: decimal.NewFromInt(500),
		},
	}

	suite.mockRegisterRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockRegisterRepo.On("UpdateSession", ctx, mock.AnythingOfType("domain.RegisterSession")).Return(apperrors.ErrConflict).Once()

	_, err := suite.service.CloseSession(ctx, session.SessionID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *RegisterServiceTestSuite) TestResolveDiscrepancy_Success() {
	ctx := context.Background()
	session := suite.openSession("500")
	session.Status = domain.SessionDiscrepancyPending
	session.Discrepancies = domain.BalanceMap{
		domain.MethodCash: decimal.RequireFromString("-75.00"),
	}

	req := dto.ResolveDiscrepancyRequest{
		Kind:  domain.ResolutionDeductFromPay,
		Notes: "Shortage confirmed by shift supervisor",
	}

	suite.mockRegisterRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockRegisterRepo.On("UpdateSession", ctx, mock.AnythingOfType("domain.RegisterSession")).Return(nil).Once()

	resolved, err := suite.service.ResolveDiscrepancy(ctx, session.SessionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.SessionDeductFromPay, resolved.Status)
	suite.Require().NotNil(resolved.Resolution)
	suite.Equal(domain.ResolutionDeductFromPay, resolved.Resolution.Kind)
	suite.Equal(suite.userID, resolved.Resolution.ResolvedBy)
	suite.Equal(req.Notes, resolved.Resolution.Notes)
	suite.mockRegisterRepo.AssertExpectations(suite.T())
}

func (suite *RegisterServiceTestSuite) TestResolveDiscrepancy_OpenSession() {
	ctx := context.Background()
	session := suite.openSession("500")

	req := dto.ResolveDiscrepancyRequest{Kind: domain.ResolutionApproved}

	suite.mockRegisterRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()

	_, err := suite.service.ResolveDiscrepancy(ctx, session.SessionID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *RegisterServiceTestSuite) TestResolveDiscrepancy_AlreadyResolved() {
	ctx := context.Background()
	session := suite.openSession("500")
	session.Status = domain.SessionWrittenOff

	req := dto.ResolveDiscrepancyRequest{Kind: domain.ResolutionApproved}

	suite.mockRegisterRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()

	_, err := suite.service.ResolveDiscrepancy(ctx, session.SessionID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyResolved)
	suite.mockRegisterRepo.AssertNotCalled(suite.T(), "UpdateSession", mock.Anything, mock.Anything)
}

func (suite *RegisterServiceTestSuite) TestResolveDiscrepancy_UnknownKind() {
	ctx := context.Background()

	_, err := suite.service.ResolveDiscrepancy(ctx, uuid.NewString(), dto.ResolveDiscrepancyRequest{Kind: domain.ResolutionKind("SHRUG")}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RegisterServiceTestSuite) TestListOpenSessions() {
	ctx := context.Background()
	sessions := []domain.RegisterSession{*suite.openSession("100")}

	suite.mockRegisterRepo.On("ListOpenSessions", ctx).Return(sessions, nil).Once()

	got, err := suite.service.ListOpenSessions(ctx)

	suite.Require().NoError(err)
	suite.Len(got, 1)
}

func TestRegisterServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RegisterServiceTestSuite))
}
