package models

// Wallet is the custodial key pair held for one LINE user. The persisted
// record carries exactly these two fields; PrivateKey is written once at
// creation and never rotated or re-derived.
type Wallet struct {
	Address    string `json:"address"`
	PrivateKey string `json:"private_key"`
}
