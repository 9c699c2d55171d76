package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/atomic-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/atomic-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/atomic-ledger/src/internal/commons"
	"github.com/api-sage/atomic-ledger/src/internal/domain"
	"github.com/api-sage/atomic-ledger/src/internal/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type AccountService struct {
	store      repo_interfaces.LedgerStore
	bcryptCost int
}

func NewAccountService(store repo_interfaces.LedgerStore, bcryptCost int) *AccountService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{store: store, bcryptCost: bcryptCost}
}

func (s *AccountService) RegisterAccount(ctx context.Context, req models.RegisterAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service register account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service register account validation failed", err, nil)
		wrapped := fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		return commons.FailureResponse[models.AccountResponse](wrapped, err.Error()), wrapped
	}

	return s.createAccount(ctx, req.DisplayName, req.Password, decimal.Zero)
}

// SeedAccount creates a bootstrap account with an initial balance. It is used at
// startup only and does not go through the mutation path.
func (s *AccountService) SeedAccount(ctx context.Context, displayName string, password string, balance decimal.Decimal) (commons.Response[models.AccountResponse], error) {
	if err := domain.ValidateBalance(balance); err != nil {
		return commons.FailureResponse[models.AccountResponse](err, err.Error()), err
	}

	return s.createAccount(ctx, displayName, password, balance)
}

func (s *AccountService) GetBalance(ctx context.Context, accountID string) (commons.Response[models.BalanceResponse], error) {
	accountID = strings.TrimSpace(accountID)

	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		logger.Error("account service get balance failed", err, logger.Fields{
			"accountId": accountID,
		})
		if !errors.Is(err, domain.ErrRecordNotFound) {
			err = fmt.Errorf("%w: get account: %w", domain.ErrInternalFailure, err)
		}
		return commons.FailureResponse[models.BalanceResponse](err), err
	}

	return commons.SuccessResponse("balance fetched successfully", models.BalanceResponse{
		AccountID: account.ID,
		Balance:   account.Balance,
	}), nil
}

func (s *AccountService) ListAccounts(ctx context.Context) (commons.Response[[]models.AccountResponse], error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		logger.Error("account service list accounts failed", err, nil)
		err = fmt.Errorf("%w: list accounts: %w", domain.ErrInternalFailure, err)
		return commons.FailureResponse[[]models.AccountResponse](err), err
	}

	out := make([]models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, mapAccount(account))
	}
	return commons.SuccessResponse("accounts fetched successfully", out), nil
}

// Authenticate resolves credentials to a trusted account id.
func (s *AccountService) Authenticate(ctx context.Context, displayName string, password string) (string, error) {
	account, err := s.store.GetAccountByName(ctx, strings.TrimSpace(displayName))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			logger.Info("account service authenticate unknown account", logger.Fields{
				"displayName": displayName,
			})
			return "", domain.ErrUnauthorized
		}
		return "", fmt.Errorf("%w: get account: %w", domain.ErrInternalFailure, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Info("account service authenticate password mismatch", logger.Fields{
				"accountId": account.ID,
			})
			return "", domain.ErrUnauthorized
		}
		wrappedErr := fmt.Errorf("verify password: %w", err)
		logger.Error("account service authenticate compare failed", wrappedErr, logger.Fields{
			"accountId": account.ID,
		})
		return "", domain.ErrUnauthorized
	}

	return account.ID, nil
}

func (s *AccountService) createAccount(ctx context.Context, displayName string, password string, balance decimal.Decimal) (commons.Response[models.AccountResponse], error) {
	hashed, err := hashPassword(password, s.bcryptCost)
	if err != nil {
		logger.Error("account service hash password failed", err, nil)
		err = fmt.Errorf("%w: %w", domain.ErrInternalFailure, err)
		return commons.FailureResponse[models.AccountResponse](err), err
	}

	created, err := s.store.CreateAccount(ctx, domain.Account{
		DisplayName:  strings.TrimSpace(displayName),
		Balance:      balance,
		PasswordHash: hashed,
	})
	if err != nil {
		logger.Error("account service create account failed", err, logger.Fields{
			"displayName": displayName,
		})
		if !errors.Is(err, domain.ErrDuplicateAccount) && !errors.Is(err, domain.ErrInvalidInput) {
			err = fmt.Errorf("%w: create account: %w", domain.ErrInternalFailure, err)
		}
		return commons.FailureResponse[models.AccountResponse](err), err
	}

	logger.Info("account service create account success", logger.Fields{
		"accountId":   created.ID,
		"displayName": created.DisplayName,
	})
	return commons.SuccessResponse("account created successfully", mapAccount(created)), nil
}

func mapAccount(account domain.Account) models.AccountResponse {
	return models.AccountResponse{
		ID:          account.ID,
		DisplayName: account.DisplayName,
		Balance:     account.Balance,
		CreatedAt:   account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   account.UpdatedAt.Format(time.RFC3339),
	}
}

func hashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hashed), nil
}
