package dequerpc

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/juju/errors"
)

// DequeClient calls the deque gateway. Every method names the deque it
// works on; the gateway creates a deque on the first add.
type DequeClient struct {
	c thrift.TClient
}

func NewDequeClient(c thrift.TClient) *DequeClient {
	return &DequeClient{c: c}
}

// NewDequeClientCore has the shape expected by the client pool constructors.
func NewDequeClientCore(c thrift.TClient) any {
	return NewDequeClient(c)
}

func (d *DequeClient) call(ctx context.Context, op, name string, value float64) (*OpResult, error) {
	args := &OpArgs{Name: name, Value: value}
	var res OpResult
	if _, err := d.c.Call(ctx, op, args, &res); err != nil {
		return nil, errors.Annotatef(err, "%s %q", op, name)
	}
	return &res, nil
}

func (d *DequeClient) AddFront(ctx context.Context, name string, v float64) error {
	_, err := d.call(ctx, OpAddFront, name, v)
	return err
}

func (d *DequeClient) AddBack(ctx context.Context, name string, v float64) error {
	_, err := d.call(ctx, OpAddBack, name, v)
	return err
}

func (d *DequeClient) Front(ctx context.Context, name string) (float64, error) {
	res, err := d.call(ctx, OpFront, name, 0)
	if err != nil {
		return 0, err
	}
	return res.Value, nil
}

func (d *DequeClient) Back(ctx context.Context, name string) (float64, error) {
	res, err := d.call(ctx, OpBack, name, 0)
	if err != nil {
		return 0, err
	}
	return res.Value, nil
}

func (d *DequeClient) RemoveFront(ctx context.Context, name string) error {
	_, err := d.call(ctx, OpRemoveFront, name, 0)
	return err
}

func (d *DequeClient) RemoveBack(ctx context.Context, name string) error {
	_, err := d.call(ctx, OpRemoveBack, name, 0)
	return err
}

func (d *DequeClient) IsEmpty(ctx context.Context, name string) (bool, error) {
	res, err := d.call(ctx, OpIsEmpty, name, 0)
	if err != nil {
		return false, err
	}
	return res.Empty, nil
}

func (d *DequeClient) Size(ctx context.Context, name string) (int, error) {
	res, err := d.call(ctx, OpSize, name, 0)
	if err != nil {
		return 0, err
	}
	return int(res.Size), nil
}

func (d *DequeClient) Reverse(ctx context.Context, name string) error {
	_, err := d.call(ctx, OpReverse, name, 0)
	return err
}

func (d *DequeClient) Print(ctx context.Context, name string) (string, error) {
	res, err := d.call(ctx, OpPrint, name, 0)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func (d *DequeClient) Values(ctx context.Context, name string) ([]float64, error) {
	res, err := d.call(ctx, OpValues, name, 0)
	if err != nil {
		return nil, err
	}
	return res.Values, nil
}

// Drop destroys the deque on the gateway and reports whether it existed.
func (d *DequeClient) Drop(ctx context.Context, name string) (bool, error) {
	res, err := d.call(ctx, OpDrop, name, 0)
	if err != nil {
		return false, err
	}
	return res.Size > 0, nil
}

// Do runs op by name, for callers that drive the client from a script.
func (d *DequeClient) Do(ctx context.Context, op, name string, value float64) (*OpResult, error) {
	return d.call(ctx, op, name, value)
}
