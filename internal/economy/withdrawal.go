package economy

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"cashdunia/internal/domain"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	CoinsPerRupee      = 80
	WithdrawalMinCoins = 1200
)

// Tier is a fixed withdrawal package.
type Tier struct {
	Coins  int64  `json:"coins"`
	Rupees int64  `json:"rs"`
	Label  string `json:"label"`
}

var tiers = []Tier{
	{Coins: 1200, Rupees: 15},
	{Coins: 2400, Rupees: 30},
	{Coins: 4800, Rupees: 60},
	{Coins: 9600, Rupees: 120},
}

var inr = currency.MustParseISO("INR")

func rupeeLabel(rs int64) string {
	p := message.NewPrinter(language.English)
	return p.Sprint(currency.Symbol(inr.Amount(rs)))
}

// Tiers returns the withdrawal tiers, smallest first.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	for i, t := range tiers {
		t.Label = rupeeLabel(t.Rupees)
		out[i] = t
	}
	return out
}

// TierFor resolves a tier by its coin amount.
func TierFor(coins int64) (Tier, error) {
	for _, t := range tiers {
		if t.Coins == coins {
			t.Label = rupeeLabel(t.Rupees)
			return t, nil
		}
	}
	return Tier{}, Fail(ErrInvalidTier, "%d coins is not a withdrawal tier", coins)
}

// Payout methods
const (
	MethodUPI        = "UPI"
	MethodPayPal     = "PAYPAL"
	MethodPaytm      = "PAYTM"
	MethodBank       = "BANK"
	MethodGooglePlay = "GOOGLE PLAY"
	MethodAmazonPay  = "AMAZON PAY"
)

type addressRule int

const (
	ruleGeneric addressRule = iota
	ruleUPI
	ruleEmail
)

// methodRules lists the methods with a dedicated address format. Any other
// method only needs a non-trivial address.
var methodRules = map[string]addressRule{
	MethodUPI:    ruleUPI,
	MethodPayPal: ruleEmail,
}

var methodAliases = map[string]string{
	"UPI ID": MethodUPI,
}

// Methods lists the payout methods offered to users.
func Methods() []string {
	return []string{MethodUPI, MethodGooglePlay, MethodAmazonPay, MethodPayPal, MethodPaytm, MethodBank}
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeMethod upper-cases method, collapses inner whitespace and maps
// display names such as "UPI ID" onto their canonical method.
func NormalizeMethod(method string) string {
	m := strings.ToUpper(strings.Join(strings.Fields(method), " "))
	if canonical, ok := methodAliases[m]; ok {
		return canonical
	}
	return m
}

// ValidateAddress checks address against the format rule of method and
// returns the normalized method and address.
func ValidateAddress(method, address string) (string, string, error) {
	m := NormalizeMethod(method)
	if m == "" {
		return "", "", Fail(ErrInvalidAddress, "payout method is required")
	}
	rule := methodRules[m]
	addr := strings.TrimSpace(address)

	switch rule {
	case ruleUPI:
		if strings.IndexFunc(addr, unicode.IsSpace) >= 0 {
			return "", "", Fail(ErrInvalidAddress, "UPI ID must not contain spaces")
		}
		parts := strings.Split(addr, "@")
		if len(parts) != 2 {
			return "", "", Fail(ErrInvalidAddress, "UPI ID must contain exactly one @")
		}
		if len(parts[0]) < 3 {
			return "", "", Fail(ErrInvalidAddress, "UPI ID name must be at least 3 characters")
		}
		if len(parts[1]) < 2 {
			return "", "", Fail(ErrInvalidAddress, "UPI ID bank handle must be at least 2 characters")
		}
	case ruleEmail:
		if !emailRe.MatchString(addr) {
			return "", "", Fail(ErrInvalidAddress, "%s requires a valid email address", m)
		}
	default:
		if utf8.RuneCountInString(addr) < 5 {
			return "", "", Fail(ErrInvalidAddress, "%s address must be at least 5 characters", m)
		}
	}
	return m, addr, nil
}

// ValidateWithdrawal runs every withdrawal precondition against the current
// balance. Checks run tier, then address, then balance.
func ValidateWithdrawal(balance, tierCoins int64, method, address string) (*domain.Withdrawal, error) {
	tier, err := TierFor(tierCoins)
	if err != nil {
		return nil, err
	}
	m, addr, err := ValidateAddress(method, address)
	if err != nil {
		return nil, err
	}
	if balance < tier.Coins {
		return nil, Fail(ErrInsufficientFunds, "need %d coins for this tier, balance is %d", tier.Coins, balance)
	}
	return &domain.Withdrawal{
		TierCoins:      tier.Coins,
		RsValue:        tier.Rupees,
		Method:         m,
		PaymentAddress: addr,
		Status:         domain.WithdrawalStatusPending,
	}, nil
}

var transitions = map[domain.WithdrawalStatus][]domain.WithdrawalStatus{
	domain.WithdrawalStatusPending:    {domain.WithdrawalStatusProcessing},
	domain.WithdrawalStatusProcessing: {domain.WithdrawalStatusPaid, domain.WithdrawalStatusFailed},
}

// CheckTransition validates an operator status change.
func CheckTransition(from, to domain.WithdrawalStatus) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return Fail(ErrPreconditionFailed, "withdrawal cannot move from %s to %s", from, to)
}
