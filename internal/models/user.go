package models

// User is created once at registration and never modified afterwards.
// Password holds whatever the configured hasher produced; with the default
// plaintext hasher that is the password itself.
type User struct {
	UserID      int64  `json:"userId" example:"12345678901"`
	Name        string `json:"name" example:"Ada Lovelace"`
	Address     string `json:"address" example:"12 St James's Square"`
	Password    string `json:"-"`
	PhoneNumber string `json:"phoneNumber" example:"+447700900123"`
	Email       string `json:"email" example:"ada@example.com"`
}
