/*
Package wallet implements the wallet ledger engine.

Every balance-changing operation runs the same steps:

  - validate the request (positive amount, non-empty user ids, distinct
    sender and recipient) without touching the store
  - lock and load the affected wallets inside one atomic unit
  - apply Credit/Debit to the loaded wallets
  - build the Transaction record
  - commit the wallets and the record together

Usage:

	engine := wallet.NewService(store, clock, ids, nil, logger)

	w, err := engine.CreateWallet(ctx, "user-1", decimal.Zero)

	res, err := engine.Credit(ctx, "user-1", decimal.NewFromInt(100), "")

	out, err := engine.Transfer(ctx, "user-1", "user-2", decimal.NewFromInt(40), "rent")
	if errors.Is(err, lerrors.ErrInsufficientFunds) {
	    // out.SenderBalance holds the untouched balance
	}

Error Handling:

Errors are *errors.DomainError values. Use errors.KindOf to decide how to
react: InvalidArgument, NotFound and InsufficientFunds are outcomes of the
request; StoreFault means nothing was committed and the caller may retry;
DomainValidation is a defect. The engine never retries on its own.

Metrics:

A MetricsCollector receives operation durations, results, error kinds and
committed volume. NoopMetricsCollector is used when none is given.
*/
package wallet
