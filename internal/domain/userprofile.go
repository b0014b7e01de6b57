package domain

// UserProfile holds the entitlement and locale settings of the single local user.
type UserProfile struct {
	ID       string
	Premium  bool
	Timezone string
}
