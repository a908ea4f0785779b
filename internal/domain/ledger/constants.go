package ledger

const (
	AccountKindChecking = "checking"
	AccountKindSavings  = "savings"
	AccountKindCredit   = "credit"
	AccountKindCash     = "cash"
)

func ValidAccountKind(kind string) bool {
	switch kind {
	case AccountKindChecking, AccountKindSavings, AccountKindCredit, AccountKindCash:
		return true
	}
	return false
}
