// Package txn wraps multi-document writes in a MongoDB transaction so a
// garden mutation (garden document + membership documents) commits or
// aborts as one unit.
//
// Ordering between separate transactions on the same garden is
// last-committed-wins; atomicity is only guaranteed within one Run call.
//
// Transactions need a replica set. Against a standalone mongod (dev,
// CI) Run detects the "not supported" error, logs a warning, and runs
// the body without a session so local work still proceeds; the
// reconcile worker repairs any torn state that path could leave.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a transaction. fn must perform all reads and
// writes through the ctx it receives.
func Run(ctx context.Context, client *mongo.Client, log *zap.Logger, fn func(ctx context.Context) error) error {
	session, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return runWithoutTxn(ctx, log, fn)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return runWithoutTxn(ctx, log, fn)
	}
	return err
}

func runWithoutTxn(ctx context.Context, log *zap.Logger, fn func(ctx context.Context) error) error {
	if log != nil {
		log.Warn("mongo transactions unavailable; running multi-document write without a transaction")
	}
	return fn(ctx)
}

// notSupportedCodes are the server codes returned when transactions are
// attempted on a deployment that cannot run them.
var notSupportedCodes = map[int32]bool{
	20:  true, // IllegalOperation (standalone server)
	51:  true, // not allowed in this session state
	263: true, // operation not permitted in transaction
}

// keyword pairs that, together, identify a transactions-unavailable
// error from drivers or proxies that do not surface a code.
var notSupportedPhrases = [][2]string{
	{"transaction", "replica set"},
	{"session", "not supported"},
	{"transaction", "session"},
	{"transaction", "illegal operation"},
}

// IsNotSupported reports whether err indicates the deployment cannot
// run multi-document transactions (standalone mongod, old server).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && notSupportedCodes[cmdErr.Code] {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pair := range notSupportedPhrases {
		if strings.Contains(msg, pair[0]) && strings.Contains(msg, pair[1]) {
			return true
		}
	}
	return false
}
