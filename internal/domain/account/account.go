package account

// Account represents a registered participant. Identity verification happens
// in the excluded transport layer; the engine only needs the profile.
type Account struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

// RecordID implements the store record contract
func (a *Account) RecordID() int { return a.ID }
