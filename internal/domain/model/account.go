package model

import "slices"

// AccountsStorageKey is the storage slot holding the full account snapshot.
const AccountsStorageKey = "accounts"

// LabelDelimiter separates labels in the free-text label field of the account form.
const LabelDelimiter = ";"

// DefaultAccountType is assigned to newly created accounts.
const DefaultAccountType = AccountTypeLocal

// LabelItem is a single tag attached to an account.
type LabelItem struct {
	Text string `json:"text"`
}

// Account is a stored credential profile. Password is nil for LDAP accounts,
// whose secret is managed by the directory.
type Account struct {
	ID       string      `json:"id"`
	Labels   []LabelItem `json:"labels"`
	Type     AccountType `json:"type"`
	Login    string      `json:"login"`
	Password *string     `json:"password"`
}

// Clone returns a deep copy so callers cannot mutate stored state through
// shared label slices or password pointers.
func (a Account) Clone() Account {
	out := a
	if a.Labels != nil {
		out.Labels = slices.Clone(a.Labels)
	}
	if a.Password != nil {
		p := *a.Password
		out.Password = &p
	}
	return out
}

// StringPtr returns a pointer to s. Handy for building accounts with a password.
func StringPtr(s string) *string {
	return &s
}
