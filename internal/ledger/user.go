package ledger

import "sync"

// User owns an ordered collection of accounts that only grows.
type User struct {
	id   string
	name string

	mu       sync.RWMutex
	accounts []*BankAccount
}

func NewUser(id, name string) *User {
	return &User{id: id, name: name}
}

func (u *User) ID() string {
	return u.id
}

func (u *User) Name() string {
	return u.name
}

// Accounts returns a copy of the account list in creation order. A nil user has no accounts.
func (u *User) Accounts() []*BankAccount {
	if u == nil {
		return nil
	}
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]*BankAccount(nil), u.accounts...)
}

func (u *User) addAccount(a *BankAccount) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.accounts = append(u.accounts, a)
}
