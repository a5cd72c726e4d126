package store

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Txn runs a callback inside a mongo session transaction. The session context
// passed to fn satisfies context.Context, so store methods called through it
// participate in the transaction transparently.
type Txn struct {
	client *mongo.Client
}

func NewTxn(client *mongo.Client) *Txn {
	return &Txn{client: client}
}

func (t *Txn) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
