package oauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeGoogle(t *testing.T) {
	tests := []struct {
		name string
		raw  GoogleProfile
		want Profile
	}{
		{
			name: "complete profile",
			raw: GoogleProfile{
				Emails: []ValueField{{Value: "g@example.com"}},
				Name: struct {
					GivenName  string `json:"givenName"`
					FamilyName string `json:"familyName"`
				}{GivenName: "Grace", FamilyName: "Hopper"},
				Photos: []ValueField{{Value: "http://photo"}},
			},
			want: Profile{
				Email:      "g@example.com",
				GivenName:  "Grace",
				FamilyName: "Hopper",
				AvatarURL:  "http://photo",
				Provider:   ProviderGoogle,
			},
		},
		{
			name: "empty profile degrades to defaults",
			raw:  GoogleProfile{},
			want: Profile{
				GivenName:  "Unknown",
				FamilyName: "User",
				Provider:   ProviderGoogle,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeGoogle(tt.raw))
		})
	}
}

func TestNormalizeGitHub(t *testing.T) {
	got := NormalizeGitHub(GitHubProfile{
		Email:    "gh@example.com",
		Username: "octo",
		Picture:  "http://avatar",
	})
	assert.Equal(t, Profile{
		Email:      "gh@example.com",
		GivenName:  "octo",
		FamilyName: "User",
		AvatarURL:  "http://avatar",
		Provider:   ProviderGitHub,
	}, got)

	// GitHub profiles without a username still normalize.
	got = NormalizeGitHub(GitHubProfile{Email: "gh@example.com"})
	assert.Equal(t, "Unknown", got.GivenName)
	assert.Equal(t, "User", got.FamilyName)
}

func TestNormalizeFacebook(t *testing.T) {
	got := NormalizeFacebook(FacebookProfile{
		Emails:      []ValueField{{Value: "fb@example.com"}},
		DisplayName: "Ada L",
		Photos:      []ValueField{{Value: "http://pic"}},
	})
	assert.Equal(t, "fb@example.com", got.Email)
	// displayName fills in when the structured name is absent
	assert.Equal(t, "Ada L", got.GivenName)
	assert.Equal(t, "User", got.FamilyName)
	assert.Equal(t, ProviderFacebook, got.Provider)
}
