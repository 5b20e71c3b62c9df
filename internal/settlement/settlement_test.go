package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qty(n int64) *int64 { return &n }

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func line(name string, q int64, p string) Line {
	return Line{Name: name, Quantity: qty(q), UnitPrice: price(p)}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── ComputeTotals ─────────────────────────────────────────────────────────────

func TestComputeTotals_SumsPurchaseLinesOnly(t *testing.T) {
	items := []Line{
		line("Lawn Suit", 2, "250"),
		line("Dupatta", 3, "100.50"),
	}
	returns := []Line{line("Damaged Suit", 1, "250")}

	totals := ComputeTotals(items, returns)
	assert.True(t, totals.Purchase.Equal(dec("801.50")), "purchase=%s", totals.Purchase)
	assert.True(t, totals.Return.Equal(dec("250")))
	assert.True(t, totals.Net.Equal(dec("551.50")))
}

func TestComputeTotals_MissingFieldsCoerceToZero(t *testing.T) {
	items := []Line{
		{Name: "half-typed row"},                       // no qty, no price
		{Name: "priced, no qty", UnitPrice: price("9")},
		{Name: "qty, no price", Quantity: qty(4)},
		line("real", 2, "10"),
	}
	totals := ComputeTotals(items, nil)
	assert.True(t, totals.Purchase.Equal(dec("20")))
}

func TestComputeTotals_NamelessRowsExcluded(t *testing.T) {
	// A row with amounts but no product name yet must not count, otherwise
	// the stored header totals drift from the persisted line items.
	items := []Line{
		line("real", 5, "100"),
		{Quantity: qty(2), UnitPrice: price("50")},
	}
	totals := ComputeTotals(items, nil)
	assert.True(t, totals.Purchase.Equal(dec("500")), "got %s", totals.Purchase)
}

func TestComputeTotals_NegativeNetOnPureReturn(t *testing.T) {
	totals := ComputeTotals(nil, []Line{line("ret", 4, "100")})
	assert.True(t, totals.Net.Equal(dec("-400")))
	assert.True(t, totals.AmountDue().IsZero(), "amount due clamps to zero")
}

func TestComputeTotals_Idempotent(t *testing.T) {
	items := []Line{line("a", 3, "19.99"), line("b", 1, "5")}
	returns := []Line{line("r", 2, "7.25")}
	first := ComputeTotals(items, returns)
	second := ComputeTotals(items, returns)
	assert.True(t, first.Purchase.Equal(second.Purchase))
	assert.True(t, first.Return.Equal(second.Return))
	assert.True(t, first.Net.Equal(second.Net))
}

// ── AllocateAdvance ───────────────────────────────────────────────────────────

func TestAllocateAdvance_MinOfAdvanceAndDue(t *testing.T) {
	cases := []struct {
		name              string
		net, advance, want string
	}{
		{"advance smaller", "700", "300", "300"},
		{"advance larger caps at net", "700", "800", "700"},
		{"exact", "500", "500", "500"},
		{"zero advance", "500", "0", "0"},
		{"zero net", "0", "900", "0"},
		{"negative net never allocates", "-400", "900", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AllocateAdvance(dec(tc.net), dec(tc.advance))
			assert.True(t, got.Equal(dec(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

// ── ResolveStatus ─────────────────────────────────────────────────────────────

func TestResolveStatus_Invariants(t *testing.T) {
	// For every generated triple with netTotal > 0:
	// paid ⇒ advance+cash >= net; partial ⇒ 0 < advance+cash < net.
	amounts := []string{"0", "50", "200", "500", "700", "1000"}
	for _, n := range []string{"200", "500", "700"} {
		net := dec(n)
		for _, a := range amounts {
			for _, c := range amounts {
				adv, cash := dec(a), dec(c)
				total := adv.Add(cash)
				status := ResolveStatus(net, adv, cash)
				switch status {
				case StatusPaid:
					assert.True(t, total.GreaterThanOrEqual(net))
				case StatusPartial:
					assert.True(t, total.Sign() > 0 && total.LessThan(net))
				case StatusUnpaid:
					assert.True(t, total.Sign() <= 0)
				}
			}
		}
	}
}

func TestResolveStatus_ReturnOnlyForcedUnpaid(t *testing.T) {
	assert.Equal(t, StatusUnpaid, ResolveStatus(dec("-400"), dec("0"), dec("0")))
	// Even a stray positive cash amount cannot flip the status.
	assert.Equal(t, StatusUnpaid, ResolveStatus(dec("-400"), dec("0"), dec("100")))
}

// ── Scenarios from the settlement contract ───────────────────────────────────

func TestScenarioA_NoAdvance(t *testing.T) {
	items := []Line{line("suit", 2, "250")}

	for _, tc := range []struct {
		cash string
		want Status
	}{
		{"500", StatusPaid},
		{"200", StatusPartial},
		{"0", StatusUnpaid},
	} {
		res := Compute(Input{
			Items:          items,
			CashPayment:    dec(tc.cash),
			DeclaredStatus: tc.want,
		}, DefaultOptions())
		require.True(t, res.OK(), "errors: %v", res.Errors)
		assert.True(t, res.Totals.Net.Equal(dec("500")))
		assert.True(t, res.AdvanceUsed.IsZero())
		assert.Equal(t, tc.want, res.Status)
	}
}

func TestScenarioB_AdvanceCoversNet_CashAutoCleared(t *testing.T) {
	res := Compute(Input{
		Items:            []Line{line("bale", 10, "100")},
		Returns:          []Line{line("torn bale", 3, "100")},
		AvailableAdvance: dec("800"),
		UseAdvance:       true,
		CashPayment:      dec("150"), // entered before the advance kicked in
		DeclaredStatus:   StatusPaid,
		ReturnMethod:     ReturnReducePayable,
	}, DefaultOptions())

	require.True(t, res.OK(), "errors: %v", res.Errors)
	assert.True(t, res.Totals.Net.Equal(dec("700")))
	assert.True(t, res.AdvanceUsed.Equal(dec("700")), "capped at net, got %s", res.AdvanceUsed)
	assert.True(t, res.CashCleared)
	assert.True(t, res.CashPayment.IsZero())
	assert.Equal(t, StatusPaid, res.Status)
	assert.Equal(t, KindMixed, res.Kind)
}

func TestScenarioC_ReturnOnly(t *testing.T) {
	res := Compute(Input{
		Returns:          []Line{line("ret", 4, "100")},
		AvailableAdvance: dec("900"),
		UseAdvance:       true,
		ReturnMethod:     ReturnReducePayable,
	}, DefaultOptions())

	require.True(t, res.OK(), "errors: %v", res.Errors)
	assert.Equal(t, KindReturnOnly, res.Kind)
	assert.True(t, res.Totals.Net.Equal(dec("-400")))
	assert.True(t, res.AdvanceUsed.IsZero())
	assert.Equal(t, StatusUnpaid, res.Status)
}

func TestScenarioC_ReturnOnlyRejectsPayment(t *testing.T) {
	res := Compute(Input{
		Returns:      []Line{line("ret", 4, "100")},
		CashPayment:  dec("50"),
		ReturnMethod: ReturnReducePayable,
	}, DefaultOptions())

	require.False(t, res.OK())
	assert.Equal(t, "a return-only invoice cannot carry a payment", res.Errors[0].Detail)
}

func TestScenarioD_ReturnExceedsPurchase(t *testing.T) {
	// With purchase items present the excess return is a hard error.
	res := Compute(Input{
		Items:        []Line{line("suit", 2, "250")},
		Returns:      []Line{line("ret", 6, "100")},
		ReturnMethod: ReturnReducePayable,
	}, DefaultOptions())
	require.False(t, res.OK())
	assert.Equal(t, "return total cannot exceed purchase total", res.Errors[0].Detail)

	// Same magnitudes as a pure return are accepted.
	res = Compute(Input{
		Returns:      []Line{line("ret", 6, "100")},
		ReturnMethod: ReturnReducePayable,
	}, DefaultOptions())
	assert.True(t, res.OK(), "errors: %v", res.Errors)
}

// ── Return handling ──────────────────────────────────────────────────────────

func TestValidateReturnHandling(t *testing.T) {
	returns := []Line{line("ret", 1, "100")}
	totals := ComputeTotals(nil, returns)

	t.Run("method omitted", func(t *testing.T) {
		errs := ValidateReturnHandling(returns, totals, "", "")
		require.Len(t, errs, 1)
		assert.Equal(t, "return_handling_method", errs[0].Field)
	})

	t.Run("refund without account", func(t *testing.T) {
		errs := ValidateReturnHandling(returns, totals, ReturnRefund, "")
		require.Len(t, errs, 1)
		assert.Equal(t, "return_refund_account_id", errs[0].Field)
	})

	t.Run("reduce payable needs no account", func(t *testing.T) {
		assert.Empty(t, ValidateReturnHandling(returns, totals, ReturnReducePayable, ""))
	})

	t.Run("no valid returns: handling irrelevant", func(t *testing.T) {
		assert.Empty(t, ValidateReturnHandling(nil, Totals{}, "", ""))
		halfTyped := []Line{{Name: "no qty yet"}}
		assert.Empty(t, ValidateReturnHandling(halfTyped, Totals{}, "", ""))
	})
}

// ── Declared-status cross-checks ─────────────────────────────────────────────

func TestCompute_DeclaredStatusContradictions(t *testing.T) {
	items := []Line{line("suit", 2, "250")} // net 500

	t.Run("paid but short", func(t *testing.T) {
		res := Compute(Input{Items: items, CashPayment: dec("300"), DeclaredStatus: StatusPaid}, DefaultOptions())
		require.False(t, res.OK())
		assert.Contains(t, res.Errors[0].Detail, "need Rs. 200.00 more")
	})

	t.Run("partial with zero payment", func(t *testing.T) {
		res := Compute(Input{Items: items, DeclaredStatus: StatusPartial}, DefaultOptions())
		require.False(t, res.OK())
		assert.Equal(t, "marked partial but no payment entered", res.Errors[0].Detail)
	})

	t.Run("partial but fully covered", func(t *testing.T) {
		res := Compute(Input{Items: items, CashPayment: dec("500"), DeclaredStatus: StatusPartial}, DefaultOptions())
		require.False(t, res.OK())
		assert.Equal(t, "payment covers the invoice: status should be paid", res.Errors[0].Detail)
	})

	t.Run("overpayment", func(t *testing.T) {
		res := Compute(Input{Items: items, CashPayment: dec("600"), DeclaredStatus: StatusPaid}, DefaultOptions())
		require.False(t, res.OK())
		assert.Equal(t, "payment exceeds invoice total", res.Errors[0].Detail)
	})
}

func TestCompute_NetZeroInvoiceRejectsPayment(t *testing.T) {
	// Purchase and return cancel out, so nothing is owed and any cash
	// entered would drain the account against an unpaid invoice.
	res := Compute(Input{
		Items:        []Line{line("suit", 1, "100")},
		Returns:      []Line{line("ret", 1, "100")},
		CashPayment:  dec("50"),
		ReturnMethod: ReturnReducePayable,
	}, DefaultOptions())

	require.False(t, res.OK())
	assert.Equal(t, "payment exceeds invoice total", res.Errors[0].Detail)
	assert.Equal(t, StatusUnpaid, res.Status)
}

func TestCompute_EmptyInvoiceRejected(t *testing.T) {
	res := Compute(Input{}, DefaultOptions())
	require.False(t, res.OK())
	assert.Equal(t, "invoice needs at least one valid item or return item", res.Errors[0].Detail)
}

func TestCompute_EpsilonKeepsTinyCash(t *testing.T) {
	// A residual 0.01 entered alongside a covering advance is below the
	// clear threshold and is left alone.
	res := Compute(Input{
		Items:            []Line{line("suit", 1, "100")},
		AvailableAdvance: dec("100"),
		UseAdvance:       true,
		CashPayment:      dec("0.01"),
	}, DefaultOptions())
	assert.False(t, res.CashCleared)

	// A custom epsilon of zero clears it.
	res = Compute(Input{
		Items:            []Line{line("suit", 1, "100")},
		AvailableAdvance: dec("100"),
		UseAdvance:       true,
		CashPayment:      dec("0.01"),
	}, Options{ClearEpsilon: decimal.Zero})
	assert.True(t, res.CashCleared)
}
