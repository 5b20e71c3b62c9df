// Package settlement computes how a purchase invoice is settled: line-item
// totals, supplier-advance allocation, payment status, and return handling.
// It is pure (no persistence, no clock, no I/O) so the same algorithm can
// back every intake surface (REST handler, scan-intake, bulk import) with a
// single set of tests.
package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Status is the payment status of an invoice after settlement.
type Status string

const (
	StatusUnpaid  Status = "unpaid"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

// Kind classifies an invoice by the mix of purchase and return lines.
// Each kind carries its own required-field set (see Validate).
type Kind string

const (
	KindPurchaseOnly Kind = "purchase_only"
	KindReturnOnly   Kind = "return_only"
	KindMixed        Kind = "mixed"
)

// ReturnMethod says what happens to the value of returned stock.
type ReturnMethod string

const (
	// ReturnReducePayable nets the return against the amount owed.
	ReturnReducePayable ReturnMethod = "REDUCE_PAYABLE"
	// ReturnRefund credits the return value to a payment account.
	ReturnRefund ReturnMethod = "REFUND"
)

// Line is one purchase or return row as entered. Quantity and UnitPrice are
// pointers because half-typed rows arrive with fields missing; a nil or
// negative value aggregates as zero rather than blocking entry.
type Line struct {
	Name      string
	Quantity  *int64
	UnitPrice *decimal.Decimal
}

// Valid reports whether the line counts toward the submittability rule:
// non-empty name, quantity > 0, price >= 0.
func (l Line) Valid() bool {
	if l.Name == "" || l.Quantity == nil || *l.Quantity <= 0 {
		return false
	}
	return l.UnitPrice != nil && !l.UnitPrice.IsNegative()
}

// amount is zero for any row that fails Valid, so totals only ever sum
// the rows the intake pass will persist.
func (l Line) amount() decimal.Decimal {
	if !l.Valid() {
		return decimal.Zero
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(*l.Quantity))
}

// Totals are derived sums, never stored.
type Totals struct {
	Purchase decimal.Decimal
	Return   decimal.Decimal
	// Net = Purchase - Return. Negative on a return-only invoice; callers
	// displaying "amount due" clamp with AmountDue.
	Net decimal.Decimal
}

// AmountDue is max(Net, 0).
func (t Totals) AmountDue() decimal.Decimal {
	if t.Net.IsNegative() {
		return decimal.Zero
	}
	return t.Net
}

// ComputeTotals sums purchase and return lines. Idempotent: same input,
// same output, no state.
func ComputeTotals(items, returns []Line) Totals {
	t := Totals{Purchase: decimal.Zero, Return: decimal.Zero}
	for _, l := range items {
		t.Purchase = t.Purchase.Add(l.amount())
	}
	for _, l := range returns {
		t.Return = t.Return.Add(l.amount())
	}
	t.Net = t.Purchase.Sub(t.Return)
	return t
}

// AllocateAdvance returns the advance consumed against netTotal:
// min(availableAdvance, max(netTotal, 0)). Returns are never settled from
// advance, so a net-negative or zero invoice allocates nothing.
func AllocateAdvance(netTotal, availableAdvance decimal.Decimal) decimal.Decimal {
	if availableAdvance.IsNegative() {
		availableAdvance = decimal.Zero
	}
	due := netTotal
	if due.IsNegative() {
		return decimal.Zero
	}
	if availableAdvance.LessThan(due) {
		return availableAdvance
	}
	return due
}

// ResolveStatus derives the payment status from the settled amounts.
// A return-only invoice (netTotal < 0) is always unpaid.
func ResolveStatus(netTotal, advanceUsed, cashPayment decimal.Decimal) Status {
	if netTotal.Sign() <= 0 {
		return StatusUnpaid
	}
	total := advanceUsed.Add(cashPayment)
	switch {
	case total.GreaterThanOrEqual(netTotal):
		return StatusPaid
	case total.Sign() > 0:
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

// Error is a settlement contract violation. All errors block submission and
// none auto-correct; the user fixes the form and resubmits.
type Error struct {
	Field  string // empty for cross-field errors
	Detail string
}

func (e Error) Error() string { return e.Detail }

// Options tune policy knobs that differ between deployments.
type Options struct {
	// ClearEpsilon is the threshold above which an entered cash payment is
	// auto-cleared when the advance alone covers the net total. Kept
	// configurable rather than hard-coding a float guard.
	ClearEpsilon decimal.Decimal
}

// DefaultOptions matches historical behaviour: clear cash above 0.01.
func DefaultOptions() Options {
	return Options{ClearEpsilon: decimal.NewFromFloat(0.01)}
}

// Input is the full form state the settlement pass consumes.
type Input struct {
	Items            []Line
	Returns          []Line
	AvailableAdvance decimal.Decimal
	UseAdvance       bool
	CashPayment      decimal.Decimal
	DeclaredStatus   Status // as selected on the form; validated, not trusted
	ReturnMethod     ReturnMethod
	RefundAccountID  string
}

// Result is what every surface binds to.
type Result struct {
	Kind        Kind
	Totals      Totals
	AdvanceUsed decimal.Decimal
	// CashPayment after the auto-clear policy has been applied.
	CashPayment decimal.Decimal
	// CashCleared is true when the entered payment was dropped because the
	// advance already covers the invoice in full.
	CashCleared bool
	Status      Status
	Errors      []Error
}

// OK reports whether the invoice may be submitted.
func (r Result) OK() bool { return len(r.Errors) == 0 }

func countValid(lines []Line) int {
	n := 0
	for _, l := range lines {
		if l.Valid() {
			n++
		}
	}
	return n
}

// Compute runs the whole settlement pass: aggregation, kind classification,
// advance allocation (with the cash auto-clear policy), status resolution,
// and the submission gate. The returned Errors list is the complete set of
// violations, not just the first.
func Compute(in Input, opts Options) Result {
	validItems := countValid(in.Items)
	validReturns := countValid(in.Returns)

	res := Result{
		Totals:      ComputeTotals(in.Items, in.Returns),
		CashPayment: in.CashPayment,
		AdvanceUsed: decimal.Zero,
	}

	switch {
	case validItems > 0 && validReturns > 0:
		res.Kind = KindMixed
	case validReturns > 0:
		res.Kind = KindReturnOnly
	default:
		res.Kind = KindPurchaseOnly
	}

	if validItems == 0 && validReturns == 0 {
		res.Errors = append(res.Errors, Error{Detail: "invoice needs at least one valid item or return item"})
	}

	if in.UseAdvance {
		res.AdvanceUsed = AllocateAdvance(res.Totals.Net, in.AvailableAdvance)
	}

	// Advance takes priority: when it covers the invoice in full, drop any
	// entered cash so the supplier is not paid twice. Amounts at or below
	// the epsilon are treated as rounding noise, not a payment.
	if res.AdvanceUsed.GreaterThanOrEqual(res.Totals.Net) && res.Totals.Net.Sign() > 0 &&
		in.CashPayment.GreaterThan(opts.ClearEpsilon) {
		res.CashPayment = decimal.Zero
		res.CashCleared = true
	}

	// No payment may be attached to a net-negative invoice.
	if res.Totals.Net.Sign() < 0 {
		if in.CashPayment.Sign() > 0 {
			res.Errors = append(res.Errors, Error{Field: "payment_amount", Detail: "a return-only invoice cannot carry a payment"})
		}
		res.CashPayment = decimal.Zero
	}

	res.Status = ResolveStatus(res.Totals.Net, res.AdvanceUsed, res.CashPayment)

	res.Errors = append(res.Errors, validatePayment(res.Totals.Net, res.AdvanceUsed, res.CashPayment, in.DeclaredStatus)...)
	res.Errors = append(res.Errors, ValidateReturnHandling(in.Returns, res.Totals, in.ReturnMethod, in.RefundAccountID)...)

	return res
}

// validatePayment checks the declared status against the settled amounts.
// The declared status comes off the form; a mismatch is an error, never a
// silent correction.
func validatePayment(netTotal, advanceUsed, cashPayment decimal.Decimal, declared Status) []Error {
	var errs []Error
	total := advanceUsed.Add(cashPayment)

	// Compare against the amount actually due: a net-zero invoice owes
	// nothing, so any positive payment overshoots it.
	due := netTotal
	if due.IsNegative() {
		due = decimal.Zero
	}
	if total.GreaterThan(due) {
		errs = append(errs, Error{Field: "payment_amount", Detail: "payment exceeds invoice total"})
	}

	switch declared {
	case StatusPaid:
		if total.LessThan(netTotal) {
			short := netTotal.Sub(total)
			errs = append(errs, Error{
				Field:  "payment_status",
				Detail: fmt.Sprintf("marked paid but payment is short: need Rs. %s more", short.StringFixed(2)),
			})
		}
	case StatusPartial:
		if total.Sign() <= 0 {
			errs = append(errs, Error{Field: "payment_status", Detail: "marked partial but no payment entered"})
		} else if total.GreaterThanOrEqual(netTotal) && netTotal.Sign() > 0 {
			errs = append(errs, Error{Field: "payment_status", Detail: "payment covers the invoice: status should be paid"})
		}
	case StatusUnpaid, "":
		// nothing to cross-check
	}
	return errs
}

// ValidateReturnHandling enforces the return-handling contract: required when
// any valid return line exists, REFUND needs a target account, and the return
// total must not exceed the purchase total when purchase items are present.
func ValidateReturnHandling(returns []Line, totals Totals, method ReturnMethod, refundAccountID string) []Error {
	if countValid(returns) == 0 {
		return nil
	}
	var errs []Error
	switch method {
	case ReturnReducePayable:
		// no account needed
	case ReturnRefund:
		if refundAccountID == "" {
			errs = append(errs, Error{Field: "return_refund_account_id", Detail: "refund handling requires a refund account"})
		}
	default:
		errs = append(errs, Error{Field: "return_handling_method", Detail: "return items present: a handling method is required"})
	}
	if totals.Purchase.Sign() > 0 && totals.Return.GreaterThan(totals.Purchase) {
		errs = append(errs, Error{Field: "return_items", Detail: "return total cannot exceed purchase total"})
	}
	return errs
}
