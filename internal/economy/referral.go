package economy

import (
	"crypto/rand"
	"math/big"
	"strings"

	"cashdunia/internal/domain"
)

// ReferralBonus is paid to the referrer once per referred account.
const ReferralBonus = 50

const (
	referralPrefix   = "CD"
	referralAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referralLength   = 6
)

// GenerateReferralCode returns a new random code such as CD7K2QXA.
func GenerateReferralCode() (string, error) {
	var b strings.Builder
	b.WriteString(referralPrefix)
	size := big.NewInt(int64(len(referralAlphabet)))
	for i := 0; i < referralLength; i++ {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b.WriteByte(referralAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeCode canonicalizes user input before lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CheckReferral validates a redemption by userID. referrer is nil when the
// code resolved to no account.
func CheckReferral(userID int64, alreadyReferred bool, referrer *domain.User) error {
	if alreadyReferred {
		return Fail(ErrAlreadyReferred, "you have already used a referral code")
	}
	if referrer == nil {
		return Fail(ErrInvalidReferral, "referral code not found")
	}
	if referrer.ID == userID {
		return Fail(ErrInvalidReferral, "you cannot use your own referral code")
	}
	return nil
}
