package models

// User is the platform account as served by the data service. Privilege is
// an ordinal trust level: 0 is a regular user, 1 and above can validate
// accomplishments, refund purchases and edit other users' wallet/privilege.
type User struct {
	ID        int64  `json:"id"`
	Pseudo    string `json:"pseudo"`
	Name      string `json:"name,omitempty"`
	Surname   string `json:"surname,omitempty"`
	Email     string `json:"email,omitempty"`
	Wallet    int    `json:"wallet"`
	Privilege int    `json:"privilege"`
	AvatarID  string `json:"avatarId,omitempty"`
}

func (u *User) IsValidator() bool {
	return u.Privilege >= 1
}
