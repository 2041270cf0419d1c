// Package oauth maps heterogeneous identity-provider profiles into one
// internal shape. Provider data is untrusted and incomplete by nature, so
// every mapping is total: missing fields degrade to sentinel defaults
// instead of failing.
package oauth

type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderGitHub   Provider = "github"
	ProviderFacebook Provider = "facebook"
)

const (
	defaultGivenName  = "Unknown"
	defaultFamilyName = "User"
)

// Profile is the provider-agnostic identity shape. Transient: produced per
// OAuth callback and only used to find-or-create an account.
type Profile struct {
	Email      string
	GivenName  string
	FamilyName string
	AvatarURL  string
	Provider   Provider
}

type GoogleProfile struct {
	Emails []ValueField `json:"emails"`
	Name   struct {
		GivenName  string `json:"givenName"`
		FamilyName string `json:"familyName"`
	} `json:"name"`
	Photos []ValueField `json:"photos"`
}

type GitHubProfile struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Picture  string `json:"picture"`
}

type FacebookProfile struct {
	Emails      []ValueField `json:"emails"`
	DisplayName string       `json:"displayName"`
	Name        struct {
		GivenName  string `json:"givenName"`
		FamilyName string `json:"familyName"`
	} `json:"name"`
	Photos []ValueField `json:"photos"`
}

type ValueField struct {
	Value string `json:"value"`
}

func NormalizeGoogle(raw GoogleProfile) Profile {
	p := Profile{
		GivenName:  raw.Name.GivenName,
		FamilyName: raw.Name.FamilyName,
		Provider:   ProviderGoogle,
	}
	if len(raw.Emails) > 0 {
		p.Email = raw.Emails[0].Value
	}
	if len(raw.Photos) > 0 {
		p.AvatarURL = raw.Photos[0].Value
	}
	return fillDefaults(p)
}

func NormalizeGitHub(raw GitHubProfile) Profile {
	p := Profile{
		Email:     raw.Email,
		GivenName: raw.Username,
		AvatarURL: raw.Picture,
		Provider:  ProviderGitHub,
	}
	return fillDefaults(p)
}

func NormalizeFacebook(raw FacebookProfile) Profile {
	p := Profile{
		GivenName:  raw.Name.GivenName,
		FamilyName: raw.Name.FamilyName,
		Provider:   ProviderFacebook,
	}
	if p.GivenName == "" {
		p.GivenName = raw.DisplayName
	}
	if len(raw.Emails) > 0 {
		p.Email = raw.Emails[0].Value
	}
	if len(raw.Photos) > 0 {
		p.AvatarURL = raw.Photos[0].Value
	}
	return fillDefaults(p)
}

func fillDefaults(p Profile) Profile {
	if p.GivenName == "" {
		p.GivenName = defaultGivenName
	}
	if p.FamilyName == "" {
		p.FamilyName = defaultFamilyName
	}
	return p
}
