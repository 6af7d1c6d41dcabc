package photoshare

// TokenPurpose is the closed set of intents a token can be minted for.
// Decoding rejects any tag outside this set.
type TokenPurpose string

const (
	// TokenPurposeAccess authorizes per-request API access.
	TokenPurposeAccess TokenPurpose = "access"
	// TokenPurposeRefresh is exchanged for a new access token. A user has
	// at most one live refresh token, stored on the user record.
	TokenPurposeRefresh TokenPurpose = "refresh"
	// TokenPurposeVerify proves email ownership.
	TokenPurposeVerify TokenPurpose = "verify"
	// TokenPurposeForgot authorizes a password reset.
	TokenPurposeForgot TokenPurpose = "forgot"
)

// ParseTokenPurpose maps a claim tag back to a purpose. Unknown tags are
// rejected rather than ignored.
func ParseTokenPurpose(tag string) (TokenPurpose, error) {
	switch TokenPurpose(tag) {
	case TokenPurposeAccess, TokenPurposeRefresh, TokenPurposeVerify, TokenPurposeForgot:
		return TokenPurpose(tag), nil
	default:
		return "", ErrTokenMalformed
	}
}

func (p TokenPurpose) String() string {
	return string(p)
}
