package nodes

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NumberFormat is the binary format of a number type.
type NumberFormat string

const (
	U8       NumberFormat = "u8"
	U16      NumberFormat = "u16"
	U32      NumberFormat = "u32"
	U64      NumberFormat = "u64"
	U128     NumberFormat = "u128"
	I8       NumberFormat = "i8"
	I16      NumberFormat = "i16"
	I32      NumberFormat = "i32"
	I64      NumberFormat = "i64"
	I128     NumberFormat = "i128"
	F32      NumberFormat = "f32"
	F64      NumberFormat = "f64"
	ShortU16 NumberFormat = "shortU16"
)

var numberFormats = []NumberFormat{U8, U16, U32, U64, U128, I8, I16, I32, I64, I128, F32, F64, ShortU16}

// ParseNumberFormat returns the format named s.
func ParseNumberFormat(s string) (NumberFormat, bool) {
	for _, f := range numberFormats {
		if string(f) == s {
			return f, true
		}
	}
	if s == "short_u16" {
		return ShortU16, true
	}
	return "", false
}

// Size returns the byte width of the format. ShortU16 is variable-length and
// reports false.
func (f NumberFormat) Size() (uint64, bool) {
	switch f {
	case U8, I8:
		return 1, true
	case U16, I16:
		return 2, true
	case U32, I32, F32:
		return 4, true
	case U64, I64, F64:
		return 8, true
	case U128, I128:
		return 16, true
	}
	return 0, false
}

// Endian is the byte order of a number type.
type Endian string

const (
	LittleEndian Endian = "le"
	BigEndian    Endian = "be"
)

// ParseEndian accepts `le`, `be`, `little` and `big`.
func ParseEndian(s string) (Endian, bool) {
	switch s {
	case "le", "little":
		return LittleEndian, true
	case "be", "big":
		return BigEndian, true
	}
	return "", false
}

// BytesEncoding is the text encoding of strings and byte values.
type BytesEncoding string

const (
	Base16 BytesEncoding = "base16"
	Base58 BytesEncoding = "base58"
	Base64 BytesEncoding = "base64"
	UTF8   BytesEncoding = "utf8"
)

// ParseBytesEncoding returns the encoding named s.
func ParseBytesEncoding(s string) (BytesEncoding, bool) {
	switch e := BytesEncoding(s); e {
	case Base16, Base58, Base64, UTF8:
		return e, true
	}
	return "", false
}

type numberKind uint8

const (
	unsignedNumber numberKind = iota
	signedNumber
	floatNumber
)

// Number is the value of a number value node: an unsigned, signed or float
// number encoded as a bare JSON number.
type Number struct {
	kind numberKind
	u    uint64
	i    int64
	f    float64
}

// Uint returns an unsigned number.
func Uint(v uint64) Number { return Number{kind: unsignedNumber, u: v} }

// Int returns a signed number. Non-negative values are stored unsigned.
func Int(v int64) Number {
	if v >= 0 {
		return Uint(uint64(v))
	}
	return Number{kind: signedNumber, i: v}
}

// Float returns a float number.
func Float(v float64) Number { return Number{kind: floatNumber, f: v} }

// Uint64 returns the number as an unsigned integer when it is one.
func (n Number) Uint64() (uint64, bool) {
	return n.u, n.kind == unsignedNumber
}

func (n Number) String() string {
	switch n.kind {
	case signedNumber:
		return strconv.FormatInt(n.i, 10)
	case floatNumber:
		s := strconv.FormatFloat(n.f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	}
	return strconv.FormatUint(n.u, 10)
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	s := num.String()
	switch {
	case strings.ContainsAny(s, ".eE"):
		f, err := num.Float64()
		if err != nil {
			return err
		}
		*n = Float(f)
	case strings.HasPrefix(s, "-"):
		i, err := num.Int64()
		if err != nil {
			return err
		}
		*n = Int(i)
	default:
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("number %s out of range: %w", s, err)
		}
		*n = Uint(u)
	}
	return nil
}

// IsSigner is the tri-state signer flag of instruction accounts.
type IsSigner uint8

const (
	SignerFalse IsSigner = iota
	SignerTrue
	SignerEither
)

func (s IsSigner) MarshalJSON() ([]byte, error) {
	switch s {
	case SignerTrue:
		return []byte("true"), nil
	case SignerEither:
		return []byte(`"either"`), nil
	}
	return []byte("false"), nil
}

func (s *IsSigner) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true":
		*s = SignerTrue
	case "false":
		*s = SignerFalse
	case `"either"`:
		*s = SignerEither
	default:
		return fmt.Errorf("invalid isSigner value %s", data)
	}
	return nil
}
