package app

const (
	MsgStockExceeded = "requested quantity exceeds stock"
	MsgAddFailed     = "error adding product"
	MsgRemoveFailed  = "error removing product"
	MsgUpdateFailed  = "error updating product quantity"
)

type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
	OpUpdate Op = "update"
)

type Outcome int

const (
	Committed Outcome = iota
	Ignored
	StockExceeded
	NotFound
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case Ignored:
		return "ignored"
	case StockExceeded:
		return "stock_exceeded"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result describes how one cart operation ended. Requested is the amount the
// operation tried to reach; Available is the stock seen, when one was fetched.
type Result struct {
	Op        Op
	Outcome   Outcome
	ProductID int
	Requested int
	Available int
	Err       error
}

// OK reports whether the cart ended in the state the caller asked for.
func (r Result) OK() bool {
	return r.Outcome == Committed || r.Outcome == Ignored
}

// Message is the user-facing text for a failed result, empty otherwise.
func (r Result) Message() string {
	switch r.Outcome {
	case StockExceeded:
		return MsgStockExceeded
	case NotFound, Failed:
		switch r.Op {
		case OpAdd:
			return MsgAddFailed
		case OpRemove:
			return MsgRemoveFailed
		case OpUpdate:
			return MsgUpdateFailed
		}
	}
	return ""
}
