package domain

import "time"

const (
	// PlatformFacebookAds is the platform label stored on every Facebook ad account
	PlatformFacebookAds = "Facebook Ads"
	// KindFacebook tags records created by the Facebook integration
	KindFacebook = "facebook"
	// AccountStatusActive is the Graph API account_status value of an active ad account
	AccountStatusActive = 1
)

// AccountRecord represents a connected advertising account.
// ExternalID is the natural key: at most one record per ExternalID is stored.
type AccountRecord struct {
	ID          string    `json:"id,omitempty"`
	Platform    string    `json:"plataforma"`
	Kind        string    `json:"tipo"`
	Token       string    `json:"token"`
	ExternalID  string    `json:"identificador_conta"`
	DisplayName string    `json:"nome_conta"`
	Active      bool      `json:"ativo"`
	Metadata    Metadata  `json:"metadata,omitempty"`
	ConnectedAt time.Time `json:"data_conexao,omitzero"`
	UpdatedAt   time.Time `json:"-"`
}

// Overwrite replaces every mutable field of r with the values of src.
// ID and ConnectedAt are kept.
func (r *AccountRecord) Overwrite(src *AccountRecord) {
	r.Platform = src.Platform
	r.Kind = src.Kind
	r.Token = src.Token
	r.ExternalID = src.ExternalID
	r.DisplayName = src.DisplayName
	r.Active = src.Active
	r.Metadata = src.Metadata.Clone()
}

// Clone returns a deep copy of the record
func (r *AccountRecord) Clone() *AccountRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Metadata = r.Metadata.Clone()
	return &c
}

// AdAccount is an ad account entry as returned by the Graph API /me/adaccounts edge
type AdAccount struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	AccountID     string          `json:"account_id"`
	AccountStatus int             `json:"account_status"`
	Currency      string          `json:"currency,omitempty"`
	BusinessName  string          `json:"business_name,omitempty"`
	BusinessID    string          `json:"business_id,omitempty"`
	Business      *AdAccountOwner `json:"business,omitempty"`
}

// AdAccountOwner is the business object attached to an ad account
type AdAccountOwner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ToAccountRecord maps a remote ad account to the record stored for it.
// token is the access token the account was listed with.
func (a *AdAccount) ToAccountRecord(token string) *AccountRecord {
	businessID := a.BusinessID
	if a.Business != nil && a.Business.ID != "" {
		businessID = a.Business.ID
	}

	return &AccountRecord{
		Platform:    PlatformFacebookAds,
		Kind:        KindFacebook,
		Token:       token,
		ExternalID:  a.AccountID,
		DisplayName: a.Name,
		Active:      a.AccountStatus == AccountStatusActive,
		Metadata: Metadata{
			"currency":      OptionalString(a.Currency),
			"business_name": OptionalString(a.BusinessName),
			"business_id":   OptionalString(businessID),
		},
	}
}
