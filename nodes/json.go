package nodes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/calumari/codama/errors"
)

var registry = map[string]reflect.Type{}

func register(protos ...Node) {
	for _, p := range protos {
		registry[p.Kind()] = reflect.TypeOf(p).Elem()
	}
}

func init() {
	register(
		// type nodes
		&BooleanTypeNode{}, &NumberTypeNode{}, &PublicKeyTypeNode{}, &BytesTypeNode{},
		&StringTypeNode{}, &AmountTypeNode{}, &DateTimeTypeNode{}, &SolAmountTypeNode{},
		&ArrayTypeNode{}, &SetTypeNode{}, &MapTypeNode{}, &OptionTypeNode{},
		&ZeroableOptionTypeNode{}, &RemainderOptionTypeNode{}, &TupleTypeNode{},
		&StructTypeNode{}, &StructFieldTypeNode{}, &EnumTypeNode{},
		&EnumEmptyVariantTypeNode{}, &EnumTupleVariantTypeNode{}, &EnumStructVariantTypeNode{},
		&FixedSizeTypeNode{}, &SizePrefixTypeNode{}, &PreOffsetTypeNode{}, &PostOffsetTypeNode{},
		&SentinelTypeNode{}, &HiddenPrefixTypeNode{}, &HiddenSuffixTypeNode{},
		// value nodes
		&BooleanValueNode{}, &NumberValueNode{}, &StringValueNode{}, &BytesValueNode{},
		&PublicKeyValueNode{}, &ArrayValueNode{}, &SetValueNode{}, &TupleValueNode{},
		&StructValueNode{}, &StructFieldValueNode{}, &MapValueNode{}, &MapEntryValueNode{},
		&SomeValueNode{}, &NoneValueNode{}, &ConstantValueNode{}, &EnumValueNode{},
		// contextual value nodes
		&AccountValueNode{}, &AccountBumpValueNode{}, &ArgumentValueNode{}, &IdentityValueNode{},
		&PayerValueNode{}, &ProgramIdValueNode{}, &PdaSeedValueNode{}, &PdaValueNode{},
		&ResolverValueNode{}, &ConditionalValueNode{},
		// link nodes
		&ProgramLinkNode{}, &AccountLinkNode{}, &DefinedTypeLinkNode{}, &PdaLinkNode{},
		&InstructionLinkNode{}, &InstructionAccountLinkNode{}, &InstructionArgumentLinkNode{},
		// count, discriminator and seed nodes
		&FixedCountNode{}, &PrefixedCountNode{}, &RemainderCountNode{},
		&ConstantDiscriminatorNode{}, &FieldDiscriminatorNode{}, &SizeDiscriminatorNode{},
		&ConstantPdaSeedNode{}, &VariablePdaSeedNode{},
		// top-level nodes
		&RootNode{}, &ProgramNode{}, &AccountNode{}, &InstructionNode{},
		&InstructionAccountNode{}, &InstructionArgumentNode{}, &InstructionByteDeltaNode{},
		&InstructionRemainingAccountsNode{}, &DefinedTypeNode{}, &PdaNode{}, &ErrorNode{},
	)
}

// Kinds returns every registered node kind.
func Kinds() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	return out
}

var (
	nodeType      = reflect.TypeOf((*Node)(nil)).Elem()
	marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
)

// Marshal encodes n as JSON. The "kind" field comes first, followed by the
// node's fields in declaration order. Fields tagged omitempty are dropped
// when empty and nil slices encode as [].
func Marshal(n Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, reflect.ValueOf(n)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent is like Marshal but indents the output.
func MarshalIndent(n Node, prefix, indent string) ([]byte, error) {
	b, err := Marshal(n)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, prefix, indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func encode(buf *bytes.Buffer, v reflect.Value) error {
	if !v.IsValid() {
		buf.WriteString("null")
		return nil
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			buf.WriteString("null")
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		buf.WriteString("null")
		return nil
	}
	if v.Type().Implements(nodeType) && v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Struct {
		return encodeNode(buf, v.Interface().(Node), v.Elem())
	}
	if v.Type().Implements(marshalerType) {
		b, err := v.Interface().(json.Marshaler).MarshalJSON()
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
	switch v.Kind() {
	case reflect.Slice:
		buf.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, v.Index(i)); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case reflect.Pointer:
		return encode(buf, v.Elem())
	}
	b, err := json.Marshal(v.Interface())
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

type fieldInfo struct {
	index     int
	name      string
	omitEmpty bool
}

func fieldsOf(t reflect.Type) []fieldInfo {
	var out []fieldInfo
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		out = append(out, fieldInfo{index: i, name: name, omitEmpty: opts == "omitempty"})
	}
	return out
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	}
	return v.IsZero()
}

func encodeNode(buf *bytes.Buffer, n Node, v reflect.Value) error {
	buf.WriteString(`{"kind":`)
	kind, _ := json.Marshal(n.Kind())
	buf.Write(kind)
	for _, f := range fieldsOf(v.Type()) {
		fv := v.Field(f.index)
		if f.omitEmpty && isEmpty(fv) {
			continue
		}
		buf.WriteByte(',')
		name, _ := json.Marshal(f.name)
		buf.Write(name)
		buf.WriteByte(':')
		if err := encode(buf, fv); err != nil {
			return fmt.Errorf("%s.%s: %w", n.Kind(), f.name, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

// Unmarshal decodes a node of any registered kind.
func Unmarshal(data []byte) (Node, error) {
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	t, ok := registry[head.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown node kind %q", head.Kind)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	ptr := reflect.New(t)
	for _, f := range fieldsOf(t) {
		raw, ok := fields[f.name]
		if !ok {
			continue
		}
		if err := decode(raw, ptr.Elem().Field(f.index)); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", head.Kind, f.name, err)
		}
	}
	return ptr.Interface().(Node), nil
}

func decode(raw json.RawMessage, dst reflect.Value) error {
	if string(raw) == "null" {
		return nil
	}
	if u, ok := dst.Addr().Interface().(json.Unmarshaler); ok {
		return u.UnmarshalJSON(raw)
	}
	switch {
	case dst.Kind() == reflect.Interface, dst.Kind() == reflect.Pointer && dst.Type().Implements(nodeType):
		n, err := Unmarshal(raw)
		if err != nil {
			return err
		}
		nv := reflect.ValueOf(n)
		if !nv.Type().AssignableTo(dst.Type()) {
			return errors.InvalidNodeConversion(n.Kind(), dst.Type().String())
		}
		dst.Set(nv)
		return nil
	case dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() != reflect.Uint8:
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return err
		}
		if len(elems) == 0 {
			return nil
		}
		s := reflect.MakeSlice(dst.Type(), len(elems), len(elems))
		for i, e := range elems {
			if err := decode(e, s.Index(i)); err != nil {
				return err
			}
		}
		dst.Set(s)
		return nil
	case dst.Kind() == reflect.Pointer:
		elem := reflect.New(dst.Type().Elem())
		if err := decode(raw, elem.Elem()); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}
	return json.Unmarshal(raw, dst.Addr().Interface())
}

// ToTypeNode narrows a node to a TypeNode. Struct fields and enum variants
// are registered type nodes but not type nodes and fail to convert.
func ToTypeNode(n Node) (TypeNode, error) {
	if t, ok := n.(TypeNode); ok {
		return t, nil
	}
	if n == nil {
		return nil, errors.InvalidNodeConversion("nothing", "typeNode")
	}
	return nil, errors.InvalidNodeConversion(n.Kind(), "typeNode")
}

// ToRegisteredTypeNode narrows a node to a RegisteredTypeNode.
func ToRegisteredTypeNode(n Node) (RegisteredTypeNode, error) {
	if t, ok := n.(RegisteredTypeNode); ok {
		return t, nil
	}
	if n == nil {
		return nil, errors.InvalidNodeConversion("nothing", "registeredTypeNode")
	}
	return nil, errors.InvalidNodeConversion(n.Kind(), "registeredTypeNode")
}

// ToValueNode narrows a node to a ValueNode.
func ToValueNode(n Node) (ValueNode, error) {
	if v, ok := n.(ValueNode); ok {
		return v, nil
	}
	if n == nil {
		return nil, errors.InvalidNodeConversion("nothing", "valueNode")
	}
	return nil, errors.InvalidNodeConversion(n.Kind(), "valueNode")
}
