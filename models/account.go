package models

// UserAccount holds a user's spendable balance.
type UserAccount struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

// CanDebit checks if the account covers amount
func (a *UserAccount) CanDebit(amount int64) bool {
	return a.Balance >= amount
}

// Debit removes funds from the account
func (a *UserAccount) Debit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !a.CanDebit(amount) {
		return ErrBalanceTooLow
	}
	a.Balance -= amount
	return nil
}

// Credit adds funds to the account
func (a *UserAccount) Credit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	a.Balance += amount
	return nil
}
