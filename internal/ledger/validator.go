package ledger

import (
	"fmt"

	"ledger/internal/core"
)

// ValidateAmount fails with core.ErrInvalidAmount when amount <= 0.
func ValidateAmount(amount core.Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s must be greater than zero", core.ErrInvalidAmount, amount)
	}
	return nil
}

// CheckBalance fails with core.ErrInsufficientFunds unless balance strictly
// exceeds amount. Withdrawing the whole balance is rejected.
func CheckBalance(balance, amount core.Money) error {
	if balance.Cmp(amount) <= 0 {
		return fmt.Errorf("%w: balance %s does not exceed %s", core.ErrInsufficientFunds, balance, amount)
	}
	return nil
}

// CheckTransfer runs both checks. The caller must hold the account's lock
// when balance is read from a live account.
func CheckTransfer(balance, amount core.Money) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	return CheckBalance(balance, amount)
}
