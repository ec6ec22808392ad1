package svd

import (
	"regexp"
	"slices"

	svderrors "github.com/KimNorgaard/go-svd/errors"
	"github.com/KimNorgaard/go-svd/internal/parse"
	"github.com/KimNorgaard/go-svd/xmltree"
)

// Access is the access permission of a register or field.
type Access string

const (
	AccessReadOnly      Access = "read-only"
	AccessWriteOnly     Access = "write-only"
	AccessReadWrite     Access = "read-write"
	AccessWriteOnce     Access = "writeOnce"
	AccessReadWriteOnce Access = "read-writeOnce"
)

var accessValues = []Access{AccessReadOnly, AccessWriteOnly, AccessReadWrite, AccessWriteOnce, AccessReadWriteOnce}

// Protection is the security privilege required to access an address region.
type Protection string

const (
	ProtectionSecure     Protection = "s"
	ProtectionNonSecure  Protection = "n"
	ProtectionPrivileged Protection = "p"
)

var protectionValues = []Protection{ProtectionSecure, ProtectionNonSecure, ProtectionPrivileged}

// Endian is the processor's byte order.
type Endian string

const (
	EndianLittle     Endian = "little"
	EndianBig        Endian = "big"
	EndianSelectable Endian = "selectable"
	EndianOther      Endian = "other"
)

var endianValues = []Endian{EndianLittle, EndianBig, EndianSelectable, EndianOther}

// BlockUsage says what an address block of a peripheral is used for.
type BlockUsage string

const (
	BlockUsageRegisters BlockUsage = "registers"
	BlockUsageBuffer    BlockUsage = "buffer"
	BlockUsageReserved  BlockUsage = "reserved"
)

var blockUsageValues = []BlockUsage{BlockUsageRegisters, BlockUsageBuffer, BlockUsageReserved}

// EnumUsage says whether an enumerated-values group applies to reads,
// writes, or both.
type EnumUsage string

const (
	EnumUsageRead      EnumUsage = "read"
	EnumUsageWrite     EnumUsage = "write"
	EnumUsageReadWrite EnumUsage = "read-write"
)

var enumUsageValues = []EnumUsage{EnumUsageRead, EnumUsageWrite, EnumUsageReadWrite}

var (
	parseAccess     = parse.Enum("access", accessValues...)
	parseProtection = parse.Enum("protection", protectionValues...)
	parseEndian     = parse.Enum("endian", endianValues...)
	parseBlockUsage = parse.Enum("usage", blockUsageValues...)
	parseEnumUsage  = parse.Enum("usage", enumUsageValues...)
)

// encodeEnum builds a leaf element for v, refusing values outside allowed.
func encodeEnum[T ~string](name, kind string, v T, allowed []T) (*xmltree.Element, error) {
	if !slices.Contains(allowed, v) {
		return nil, &svderrors.MalformedValueError{Element: name, Value: string(v), Kind: kind}
	}
	return xmltree.NewText(name, string(v)), nil
}

// appendEnum appends an optional enum-typed child to e.
func appendEnum[T ~string](e *xmltree.Element, name, kind string, v *T, allowed []T) error {
	if v == nil {
		return nil
	}
	el, err := encodeEnum(name, kind, *v, allowed)
	if err != nil {
		return err
	}
	e.Append(el)
	return nil
}

// enumLiteral matches enumerated value literals, including binary literals
// with x don't-care digits.
var enumLiteral = regexp.MustCompile(`^(?:[0-9]+|0[xX][0-9a-fA-F]+|(?:#|0[bB])[01xX]+)$`)

func parseEnumLiteral(e *xmltree.Element) (string, error) {
	s := e.TrimmedText()
	if !enumLiteral.MatchString(s) {
		return "", &svderrors.MalformedValueError{Element: e.Name, Value: s, Kind: "enumerated value literal"}
	}
	return s, nil
}
