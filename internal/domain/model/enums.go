package model

// AccountType determines the credential semantics of an account.
type AccountType string

const (
	AccountTypeLDAP  AccountType = "LDAP"  // Directory-backed; never stores a password.
	AccountTypeLocal AccountType = "Local" // Password managed and stored locally.
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeLDAP, AccountTypeLocal:
		return true
	default:
		return false
	}
}

// NotificationType tags a notification for presentation.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationInfo    NotificationType = "info"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationSuccess, NotificationError, NotificationInfo:
		return true
	default:
		return false
	}
}
