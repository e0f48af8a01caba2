package domain

// Provider names an external identity provider.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
)

func (p Provider) Valid() bool {
	return p == ProviderGoogle || p == ProviderFacebook
}

// ExternalProfile is what a provider tells us about the signed-in person.
type ExternalProfile struct {
	Provider      Provider
	ExternalID    string
	Email         string
	FirstName     string
	LastName      string
	Avatar        string
	EmailVerified bool
}
