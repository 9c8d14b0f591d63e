package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// lexer
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005

	// parser
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynExpectIdentifier    Code = 2002
	SynExpectExpression    Code = 2003
	SynExpectType          Code = 2004
	SynUnclosedDelimiter   Code = 2005
	SynExpectStatementEnd  Code = 2006
	SynRestMustBeLast      Code = 2007
	SynInvalidAssignTarget Code = 2008
	SynUnexpectedTopLevel  Code = 2009

	// names
	NameInfo             Code = 3000
	NameUnknown          Code = 3001
	NameDuplicate        Code = 3002
	NameUseBeforeInit    Code = 3003
	NameAssignConst      Code = 3004
	NameUnknownImport    Code = 3005
	NameUnknownType      Code = 3006
	NameThisOutsideClass Code = 3007

	// closure conversion and call contracts
	ClosureInfo                   Code = 4000
	ClosureUnresolvableCapture    Code = 4001
	ClosureContractMismatch       Code = 4002
	ClosureAmbiguousReturn        Code = 4003
	ClosureInvalidSelfCapture     Code = 4004
	ClosureContractUnresolved     Code = 4005
	ClosureInterfaceNotFunctional Code = 4006
	ClosureArityMismatch          Code = 4007

	// types outside literals
	TypeInfo          Code = 5000
	TypeMismatch      Code = 5001
	TypeNotCallable   Code = 5002
	TypeArgCount      Code = 5003
	TypeUnknownMember Code = 5004
	TypeMissingReturn Code = 5005
	TypeBadOperand    Code = 5006

	// runtime faults
	RunInfo            Code = 6000
	RunDivideByZero    Code = 6001
	RunNullReference   Code = 6002
	RunIndexOutOfRange Code = 6003
	RunSelfUnbound     Code = 6004
	RunBadCall         Code = 6005
	RunStackOverflow   Code = 6006

	// I/O and driver
	IOInfo        Code = 7000
	IOLoadFailed  Code = 7001
	IOCacheFailed Code = 7002
)

var codeName = map[Code]string{
	UnknownCode:                   "UnknownError",
	LexInfo:                       "LexInfo",
	LexUnknownChar:                "LexUnknownChar",
	LexUnterminatedString:         "LexUnterminatedString",
	LexUnterminatedBlockComment:   "LexUnterminatedBlockComment",
	LexBadNumber:                  "LexBadNumber",
	LexBadEscape:                  "LexBadEscape",
	SynInfo:                       "SynInfo",
	SynUnexpectedToken:            "SynUnexpectedToken",
	SynExpectIdentifier:           "SynExpectIdentifier",
	SynExpectExpression:           "SynExpectExpression",
	SynExpectType:                 "SynExpectType",
	SynUnclosedDelimiter:          "SynUnclosedDelimiter",
	SynExpectStatementEnd:         "SynExpectStatementEnd",
	SynRestMustBeLast:             "SynRestMustBeLast",
	SynInvalidAssignTarget:        "SynInvalidAssignTarget",
	SynUnexpectedTopLevel:         "SynUnexpectedTopLevel",
	NameInfo:                      "NameInfo",
	NameUnknown:                   "NameUnknown",
	NameDuplicate:                 "NameDuplicate",
	NameUseBeforeInit:             "NameUseBeforeInit",
	NameAssignConst:               "NameAssignConst",
	NameUnknownImport:             "NameUnknownImport",
	NameUnknownType:               "NameUnknownType",
	NameThisOutsideClass:          "NameThisOutsideClass",
	ClosureInfo:                   "ClosureInfo",
	ClosureUnresolvableCapture:    "UnresolvableCapture",
	ClosureContractMismatch:       "ContractMismatch",
	ClosureAmbiguousReturn:        "AmbiguousReturnType",
	ClosureInvalidSelfCapture:     "InvalidRecursiveSelfCapture",
	ClosureContractUnresolved:     "ContractUnresolved",
	ClosureInterfaceNotFunctional: "InterfaceNotFunctional",
	ClosureArityMismatch:          "ArityMismatch",
	TypeInfo:                      "TypeInfo",
	TypeMismatch:                  "TypeMismatch",
	TypeNotCallable:               "TypeNotCallable",
	TypeArgCount:                  "TypeArgCount",
	TypeUnknownMember:             "TypeUnknownMember",
	TypeMissingReturn:             "TypeMissingReturn",
	TypeBadOperand:                "TypeBadOperand",
	RunInfo:                       "RunInfo",
	RunDivideByZero:               "DivideByZero",
	RunNullReference:              "NullReference",
	RunIndexOutOfRange:            "IndexOutOfRange",
	RunSelfUnbound:                "SelfUnbound",
	RunBadCall:                    "BadCall",
	RunStackOverflow:              "StackOverflow",
	IOInfo:                        "IOInfo",
	IOLoadFailed:                  "IOLoadFailed",
	IOCacheFailed:                 "IOCacheFailed",
}

// ID returns the short stable identifier, e.g. "CLO4001".
func (c Code) ID() string {
	prefix := "E"
	switch {
	case c >= 1000 && c < 2000:
		prefix = "LEX"
	case c >= 2000 && c < 3000:
		prefix = "SYN"
	case c >= 3000 && c < 4000:
		prefix = "NAM"
	case c >= 4000 && c < 5000:
		prefix = "CLO"
	case c >= 5000 && c < 6000:
		prefix = "TYP"
	case c >= 6000 && c < 7000:
		prefix = "RUN"
	case c >= 7000 && c < 8000:
		prefix = "IO"
	}
	return fmt.Sprintf("%s%04d", prefix, uint16(c))
}

func (c Code) String() string {
	if name, ok := codeName[c]; ok {
		return name
	}
	return c.ID()
}
