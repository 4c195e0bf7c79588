package dequerpc

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// Method names understood by the deque gateway.
const (
	OpAddFront    = "addFront"
	OpAddBack     = "addBack"
	OpFront       = "front"
	OpBack        = "back"
	OpRemoveFront = "removeFront"
	OpRemoveBack  = "removeBack"
	OpIsEmpty     = "isEmpty"
	OpSize        = "size"
	OpReverse     = "reverse"
	OpPrint       = "print"
	OpValues      = "values"
	OpDrop        = "drop"
)

var AllOps = []string{
	OpAddFront, OpAddBack, OpFront, OpBack, OpRemoveFront, OpRemoveBack,
	OpIsEmpty, OpSize, OpReverse, OpPrint, OpValues, OpDrop,
}

// TakesValue reports whether op carries a value argument.
func TakesValue(op string) bool {
	return op == OpAddFront || op == OpAddBack
}

// OpArgs is the argument struct of every call:
//
//	struct OpArgs { 1: string name, 2: double value }
type OpArgs struct {
	Name  string
	Value float64
}

var _ thrift.TStruct = (*OpArgs)(nil)

func NewOpArgs() *OpArgs {
	return &OpArgs{}
}

func (p *OpArgs) Reset() {
	p.Name = ""
	p.Value = 0
}

func (p *OpArgs) String() string {
	return fmt.Sprintf("OpArgs(name: %v, value: %v)", p.Name, p.Value)
}

func (p *OpArgs) Read(ctx context.Context, iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T read error: ", p), err)
	}
	for {
		_, fieldTypeId, fieldId, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%T field %d read error: ", p, fieldId), err)
		}
		if fieldTypeId == thrift.STOP {
			break
		}
		switch {
		case fieldId == 1 && fieldTypeId == thrift.STRING:
			if p.Name, err = iprot.ReadString(ctx); err != nil {
				return thrift.PrependError("error reading field 1: ", err)
			}
		case fieldId == 2 && fieldTypeId == thrift.DOUBLE:
			if p.Value, err = iprot.ReadDouble(ctx); err != nil {
				return thrift.PrependError("error reading field 2: ", err)
			}
		default:
			if err := iprot.Skip(ctx, fieldTypeId); err != nil {
				return err
			}
		}
		if err := iprot.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	if err := iprot.ReadStructEnd(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T read struct end error: ", p), err)
	}
	return nil
}

func (p *OpArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "OpArgs"); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T write struct begin error: ", p), err)
	}
	if err := oprot.WriteFieldBegin(ctx, "name", thrift.STRING, 1); err != nil {
		return err
	}
	if err := oprot.WriteString(ctx, p.Name); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "value", thrift.DOUBLE, 2); err != nil {
		return err
	}
	if err := oprot.WriteDouble(ctx, p.Value); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return err
	}
	return oprot.WriteStructEnd(ctx)
}

// OpResult is the reply struct of every call. Only the fields relevant to
// the op are meaningful:
//
//	struct OpResult {
//	  1: double value, 2: bool empty, 3: i32 size,
//	  4: list<double> values, 5: string text
//	}
type OpResult struct {
	Value  float64
	Empty  bool
	Size   int32
	Values []float64
	Text   string
}

var _ thrift.TStruct = (*OpResult)(nil)

func (p *OpResult) String() string {
	return fmt.Sprintf("OpResult(value: %v, empty: %v, size: %v, values: %v, text: %q)",
		p.Value, p.Empty, p.Size, p.Values, p.Text)
}

func (p *OpResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T read error: ", p), err)
	}
	for {
		_, fieldTypeId, fieldId, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%T field %d read error: ", p, fieldId), err)
		}
		if fieldTypeId == thrift.STOP {
			break
		}
		switch {
		case fieldId == 1 && fieldTypeId == thrift.DOUBLE:
			p.Value, err = iprot.ReadDouble(ctx)
		case fieldId == 2 && fieldTypeId == thrift.BOOL:
			p.Empty, err = iprot.ReadBool(ctx)
		case fieldId == 3 && fieldTypeId == thrift.I32:
			p.Size, err = iprot.ReadI32(ctx)
		case fieldId == 4 && fieldTypeId == thrift.LIST:
			err = p.readValues(ctx, iprot)
		case fieldId == 5 && fieldTypeId == thrift.STRING:
			p.Text, err = iprot.ReadString(ctx)
		default:
			err = iprot.Skip(ctx, fieldTypeId)
		}
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("error reading field %d: ", fieldId), err)
		}
		if err := iprot.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	if err := iprot.ReadStructEnd(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T read struct end error: ", p), err)
	}
	return nil
}

func (p *OpResult) readValues(ctx context.Context, iprot thrift.TProtocol) error {
	elemType, size, err := iprot.ReadListBegin(ctx)
	if err != nil {
		return err
	}
	if elemType != thrift.DOUBLE {
		return thrift.NewTProtocolExceptionWithType(thrift.INVALID_DATA,
			fmt.Errorf("values: unexpected element type %v", elemType))
	}
	p.Values = make([]float64, 0, size)
	for i := 0; i < size; i++ {
		v, err := iprot.ReadDouble(ctx)
		if err != nil {
			return err
		}
		p.Values = append(p.Values, v)
	}
	return iprot.ReadListEnd(ctx)
}

func (p *OpResult) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "OpResult"); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T write struct begin error: ", p), err)
	}
	fields := []struct {
		name  string
		typ   thrift.TType
		id    int16
		write func() error
	}{
		{"value", thrift.DOUBLE, 1, func() error { return oprot.WriteDouble(ctx, p.Value) }},
		{"empty", thrift.BOOL, 2, func() error { return oprot.WriteBool(ctx, p.Empty) }},
		{"size", thrift.I32, 3, func() error { return oprot.WriteI32(ctx, p.Size) }},
		{"values", thrift.LIST, 4, func() error { return p.writeValues(ctx, oprot) }},
		{"text", thrift.STRING, 5, func() error { return oprot.WriteString(ctx, p.Text) }},
	}
	for _, f := range fields {
		if err := oprot.WriteFieldBegin(ctx, f.name, f.typ, f.id); err != nil {
			return thrift.PrependError(fmt.Sprintf("%T write field begin error %d:%s: ", p, f.id, f.name), err)
		}
		if err := f.write(); err != nil {
			return thrift.PrependError(fmt.Sprintf("%T.%s (%d) field write error: ", p, f.name, f.id), err)
		}
		if err := oprot.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return err
	}
	return oprot.WriteStructEnd(ctx)
}

func (p *OpResult) writeValues(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteListBegin(ctx, thrift.DOUBLE, len(p.Values)); err != nil {
		return err
	}
	for _, v := range p.Values {
		if err := oprot.WriteDouble(ctx, v); err != nil {
			return err
		}
	}
	return oprot.WriteListEnd(ctx)
}
