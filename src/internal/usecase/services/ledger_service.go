package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/atomic-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/atomic-ledger/src/internal/adapter/repository/boundary"
	"github.com/api-sage/atomic-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/atomic-ledger/src/internal/commons"
	"github.com/api-sage/atomic-ledger/src/internal/domain"
	"github.com/api-sage/atomic-ledger/src/internal/logger"
	"github.com/shopspring/decimal"
)

// LedgerService applies deposits, withdrawals and transfers. Every call runs
// inside exactly one boundary and leaves exactly one transaction record once the
// participants are known, whatever the outcome.
type LedgerService struct {
	store repo_interfaces.LedgerStore
}

func NewLedgerService(store repo_interfaces.LedgerStore) *LedgerService {
	return &LedgerService{store: store}
}

func (s *LedgerService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (commons.Response[models.BalanceResponse], error) {
	op := newOperation(domain.TransactionKindDeposit)
	op.fields["accountId"] = accountID

	if err := op.accept(amount); err != nil {
		return commons.FailureResponse[models.BalanceResponse](err, err.Error()), err
	}
	logger.Info("ledger service deposit request", op.fields)

	var balance decimal.Decimal
	err := s.withinBoundary(ctx, op, func(b repo_interfaces.Boundary) error {
		account, err := b.GetAccount(ctx, strings.TrimSpace(accountID))
		if err != nil {
			return op.resolveFailed(ctx, s, b, "account", err)
		}
		op.destination = &account.ID

		balance = account.Balance.Add(amount)
		if err := b.SetBalance(ctx, account.ID, balance); err != nil {
			return op.fail(ctx, s, b, "credit account", err)
		}

		return op.commit(ctx, s, b, "")
	})
	if err != nil {
		return commons.FailureResponse[models.BalanceResponse](err), err
	}

	logger.Info("ledger service deposit success", op.with(logger.Fields{"balance": balance}))
	return commons.SuccessResponse("funds deposited successfully", models.BalanceResponse{
		AccountID: *op.destination,
		Balance:   balance,
	}), nil
}

func (s *LedgerService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (commons.Response[models.BalanceResponse], error) {
	op := newOperation(domain.TransactionKindWithdrawal)
	op.fields["accountId"] = accountID

	if err := op.accept(amount); err != nil {
		return commons.FailureResponse[models.BalanceResponse](err, err.Error()), err
	}
	logger.Info("ledger service withdraw request", op.fields)

	var balance decimal.Decimal
	err := s.withinBoundary(ctx, op, func(b repo_interfaces.Boundary) error {
		account, err := b.GetAccount(ctx, strings.TrimSpace(accountID))
		if err != nil {
			return op.resolveFailed(ctx, s, b, "account", err)
		}
		op.source = &account.ID

		if account.Balance.LessThan(amount) {
			return op.reject(ctx, s, b)
		}

		balance = account.Balance.Sub(amount)
		if err := b.SetBalance(ctx, account.ID, balance); err != nil {
			return op.fail(ctx, s, b, "debit account", err)
		}

		return op.commit(ctx, s, b, "")
	})
	if err != nil {
		return commons.FailureResponse[models.BalanceResponse](err), err
	}

	logger.Info("ledger service withdraw success", op.with(logger.Fields{"balance": balance}))
	return commons.SuccessResponse("funds withdrawn successfully", models.BalanceResponse{
		AccountID: *op.source,
		Balance:   balance,
	}), nil
}

func (s *LedgerService) Transfer(ctx context.Context, sourceAccountID string, destinationName string, amount decimal.Decimal) (commons.Response[models.TransferResponse], error) {
	op := newOperation(domain.TransactionKindTransfer)
	op.fields["sourceAccountId"] = sourceAccountID
	op.fields["destinationName"] = destinationName

	if err := op.accept(amount); err != nil {
		return commons.FailureResponse[models.TransferResponse](err, err.Error()), err
	}
	logger.Info("ledger service transfer request", op.fields)
	destinationName = strings.TrimSpace(destinationName)
	if destinationName == "" {
		err := fmt.Errorf("toAccountName is required: %w", domain.ErrInvalidInput)
		return commons.FailureResponse[models.TransferResponse](err, err.Error()), err
	}

	var response models.TransferResponse
	err := s.withinBoundary(ctx, op, func(b repo_interfaces.Boundary) error {
		// Both balances are read only now that the boundary is held.
		source, err := b.GetAccount(ctx, strings.TrimSpace(sourceAccountID))
		if err != nil {
			return op.resolveFailed(ctx, s, b, "source account", err)
		}
		destination, err := b.GetAccountByName(ctx, destinationName)
		if err != nil {
			return op.resolveFailed(ctx, s, b, "destination account", err)
		}
		if source.ID == destination.ID {
			b.Release(ctx)
			return fmt.Errorf("cannot transfer to the same account: %w", domain.ErrInvalidInput)
		}
		op.source = &source.ID
		op.destination = &destination.ID

		if source.Balance.LessThan(amount) {
			return op.reject(ctx, s, b)
		}

		sourceBalance := source.Balance.Sub(amount)
		destinationBalance := destination.Balance.Add(amount)

		if err := b.SetBalance(ctx, source.ID, sourceBalance); err != nil {
			return op.fail(ctx, s, b, "debit source account", err)
		}
		if err := b.SetBalance(ctx, destination.ID, destinationBalance); err != nil {
			return op.fail(ctx, s, b, "credit destination account", err)
		}

		note := fmt.Sprintf("transfer of %s from %s to %s", amount.StringFixed(domain.AmountScale), source.DisplayName, destination.DisplayName)
		if err := op.commit(ctx, s, b, note); err != nil {
			return err
		}

		response = models.TransferResponse{
			SourceAccountID:      source.ID,
			DestinationAccountID: destination.ID,
			DestinationName:      destination.DisplayName,
			Amount:               amount,
			SourceBalance:        sourceBalance,
			DestinationBalance:   destinationBalance,
		}
		return nil
	})
	if err != nil {
		return commons.FailureResponse[models.TransferResponse](err), err
	}

	logger.Info("ledger service transfer success", op.with(logger.Fields{
		"sourceBalance":      response.SourceBalance,
		"destinationBalance": response.DestinationBalance,
	}))
	return commons.SuccessResponse("transfer successful", response), nil
}

// withinBoundary opens a boundary, runs fn in it and guarantees the boundary is
// finished afterwards. A panic raised by the store is handled like any other
// fault; boundary misuse is re-raised.
func (s *LedgerService) withinBoundary(ctx context.Context, op *operation, fn func(b repo_interfaces.Boundary) error) (err error) {
	b, err := s.store.Begin(ctx)
	if err != nil {
		wrapped := fmt.Errorf("%w: begin boundary: %w", domain.ErrInternalFailure, err)
		logger.Error("ledger service begin boundary failed", wrapped, op.fields)
		return wrapped
	}
	defer b.Release(ctx)

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if rerr, ok := r.(error); ok && errors.Is(rerr, boundary.ErrMisuse) {
			panic(r)
		}
		err = op.fail(ctx, s, b, "unexpected panic", fmt.Errorf("%v", r))
	}()

	return fn(b)
}

func (s *LedgerService) appendCompensatingRecord(ctx context.Context, op *operation, note string) {
	record := op.record(domain.TransactionOutcomeRolledBack, note)
	if _, err := s.store.AppendRecord(context.WithoutCancel(ctx), record); err != nil {
		logger.Error("ledger service compensating record failed", err, op.with(logger.Fields{
			"note": note,
		}))
	}
}

// operation carries what is known about one attempted mutation.
type operation struct {
	kind        domain.TransactionKind
	amount      decimal.Decimal
	source      *string
	destination *string
	fields      logger.Fields
}

func newOperation(kind domain.TransactionKind) *operation {
	return &operation{
		kind:   kind,
		fields: logger.Fields{"operation": string(kind)},
	}
}

// accept validates amount before it is formatted for logs or used in arithmetic.
func (op *operation) accept(amount decimal.Decimal) error {
	if err := domain.ValidateAmount(amount); err != nil {
		logger.Info("ledger service rejected amount", op.with(logger.Fields{"reason": err.Error()}))
		return err
	}
	op.amount = amount
	op.fields["amount"] = amount.String()
	return nil
}

func (op *operation) with(extra logger.Fields) logger.Fields {
	out := logger.Fields{}
	for k, v := range op.fields {
		out[k] = v
	}
	if op.source != nil {
		out["sourceAccountId"] = *op.source
	}
	if op.destination != nil {
		out["destinationAccountId"] = *op.destination
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func (op *operation) record(outcome domain.TransactionOutcome, note string) domain.TransactionRecord {
	return domain.TransactionRecord{
		Kind:                 op.kind,
		SourceAccountID:      op.source,
		DestinationAccountID: op.destination,
		Amount:               op.amount,
		Outcome:              outcome,
		Note:                 note,
	}
}

func (op *operation) hasParticipants() bool {
	return op.source != nil || op.destination != nil
}

// resolveFailed handles an account lookup error. An unknown account ends the
// attempt without a record; anything else is a fault.
func (op *operation) resolveFailed(ctx context.Context, s *LedgerService, b repo_interfaces.Boundary, what string, err error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		b.Release(ctx)
		logger.Info("ledger service account not found", op.with(logger.Fields{"lookup": what}))
		return fmt.Errorf("%s: %w", what, domain.ErrRecordNotFound)
	}
	return op.fail(ctx, s, b, "read "+what, err)
}

// reject records the attempt as rolled back for insufficient funds. The boundary
// holds no balance writes at this point, so committing it persists the record only.
func (op *operation) reject(ctx context.Context, s *LedgerService, b repo_interfaces.Boundary) error {
	if _, err := b.AppendRecord(ctx, op.record(domain.TransactionOutcomeRolledBack, domain.NoteInsufficientFunds)); err != nil {
		return op.fail(ctx, s, b, "append rejection record", err)
	}
	if err := b.Commit(ctx); err != nil {
		return op.fail(ctx, s, b, "commit rejection record", err)
	}

	logger.Info("ledger service insufficient funds", op.fields)
	return domain.ErrInsufficientFunds
}

func (op *operation) commit(ctx context.Context, s *LedgerService, b repo_interfaces.Boundary, note string) error {
	if _, err := b.AppendRecord(ctx, op.record(domain.TransactionOutcomeCommitted, note)); err != nil {
		return op.fail(ctx, s, b, "append record", err)
	}
	if err := b.Commit(ctx); err != nil {
		return op.fail(ctx, s, b, "commit", err)
	}
	return nil
}

// fail aborts the boundary, then makes a best-effort attempt to log the attempt
// as rolled back on the store's independent append path.
func (op *operation) fail(ctx context.Context, s *LedgerService, b repo_interfaces.Boundary, stage string, cause error) error {
	b.Release(ctx)

	wrapped := fmt.Errorf("%w: %s: %w", domain.ErrInternalFailure, stage, cause)
	logger.Error("ledger service mutation failed", wrapped, op.with(logger.Fields{"stage": stage}))

	if op.hasParticipants() {
		s.appendCompensatingRecord(ctx, op, fmt.Sprintf("rolled back at %s: %v", stage, cause))
	}
	return wrapped
}
