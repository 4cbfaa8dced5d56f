package store

import "context"

// Notifying wraps a Store and calls Notify after every successful write, once per
// document written.
type Notifying struct {
	Store
	Notify func(doc DocType)
}

func WithNotify(s Store, notify func(doc DocType)) *Notifying {
	return &Notifying{Store: s, Notify: notify}
}

func (n *Notifying) Write(ctx context.Context, doc DocType, data []byte) error {
	if err := n.Store.Write(ctx, doc, data); err != nil {
		return err
	}
	n.notify(doc)
	return nil
}

func (n *Notifying) Update(ctx context.Context, doc DocType, fn UpdateFunc) error {
	if err := n.Store.Update(ctx, doc, fn); err != nil {
		return err
	}
	n.notify(doc)
	return nil
}

func (n *Notifying) UpdateMany(ctx context.Context, docs []DocType, fn MultiUpdateFunc) error {
	var written []DocType
	err := n.Store.UpdateMany(ctx, docs, func(current map[DocType][]byte) (map[DocType][]byte, error) {
		next, err := fn(current)
		if err != nil {
			return nil, err
		}
		written = writeOrder(docs, next)
		return next, nil
	})
	if err != nil {
		return err
	}
	for _, doc := range written {
		n.notify(doc)
	}
	return nil
}

func (n *Notifying) notify(doc DocType) {
	if n.Notify != nil {
		n.Notify(doc)
	}
}
