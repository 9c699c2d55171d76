package service_interfaces

import "github.com/api-sage/atomic-ledger/src/internal/usecase/services"

var (
	_ AccountService = (*services.AccountService)(nil)
	_ LedgerService  = (*services.LedgerService)(nil)
	_ HistoryService = (*services.HistoryService)(nil)
)
