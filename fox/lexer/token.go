package lexer

import (
	"fmt"

	"github.com/dhamidi/fox/fox/source"
)

type TokenKind int

const (
	TokenEOF TokenKind = iota

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenBoolLiteral
	TokenCharLiteral
	TokenStringLiteral

	// Keywords
	TokenLet
	TokenVar
	TokenFunc
	TokenIf
	TokenElse
	TokenWhile
	TokenReturn
	TokenAs
	TokenMut
	TokenInt
	TokenFloat
	TokenBool
	TokenChar
	TokenString

	// Signs
	TokenEqual
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenExclaim
	TokenLess
	TokenGreater
	TokenAmp
	TokenPipe
	TokenDot
	TokenComma
	TokenSemi
	TokenColon
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:           "EOF",
	TokenIdent:         "Ident",
	TokenIntLiteral:    "IntLiteral",
	TokenFloatLiteral:  "FloatLiteral",
	TokenBoolLiteral:   "BoolLiteral",
	TokenCharLiteral:   "CharLiteral",
	TokenStringLiteral: "StringLiteral",
	TokenLet:           "let",
	TokenVar:           "var",
	TokenFunc:          "func",
	TokenIf:            "if",
	TokenElse:          "else",
	TokenWhile:         "while",
	TokenReturn:        "return",
	TokenAs:            "as",
	TokenMut:           "mut",
	TokenInt:           "int",
	TokenFloat:         "float",
	TokenBool:          "bool",
	TokenChar:          "char",
	TokenString:        "string",
	TokenEqual:         "=",
	TokenPlus:          "+",
	TokenMinus:         "-",
	TokenStar:          "*",
	TokenSlash:         "/",
	TokenPercent:       "%",
	TokenExclaim:       "!",
	TokenLess:          "<",
	TokenGreater:       ">",
	TokenAmp:           "&",
	TokenPipe:          "|",
	TokenDot:           ".",
	TokenComma:         ",",
	TokenSemi:          ";",
	TokenColon:         ":",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenLBrace:        "{",
	TokenRBrace:        "}",
	TokenLBracket:      "[",
	TokenRBracket:      "]",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

func (k TokenKind) IsLiteral() bool {
	return k >= TokenIntLiteral && k <= TokenStringLiteral
}

func (k TokenKind) IsKeyword() bool {
	return k >= TokenLet && k <= TokenString
}

func (k TokenKind) IsSign() bool {
	return k >= TokenEqual && k <= TokenRBracket
}

// IsBuiltinType reports whether k names one of the builtin types.
func (k TokenKind) IsBuiltinType() bool {
	return k >= TokenInt && k <= TokenString
}

func (k TokenKind) IsOpeningBracket() bool {
	return k == TokenLParen || k == TokenLBrace || k == TokenLBracket
}

func (k TokenKind) IsClosingBracket() bool {
	return k == TokenRParen || k == TokenRBrace || k == TokenRBracket
}

// Closer returns the bracket closing k, or TokenEOF if k opens nothing.
func (k TokenKind) Closer() TokenKind {
	switch k {
	case TokenLParen:
		return TokenRParen
	case TokenLBrace:
		return TokenRBrace
	case TokenLBracket:
		return TokenRBracket
	}
	return TokenEOF
}

var signs = map[byte]TokenKind{
	'=': TokenEqual,
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'%': TokenPercent,
	'!': TokenExclaim,
	'<': TokenLess,
	'>': TokenGreater,
	'&': TokenAmp,
	'|': TokenPipe,
	'.': TokenDot,
	',': TokenComma,
	';': TokenSemi,
	':': TokenColon,
	'(': TokenLParen,
	')': TokenRParen,
	'{': TokenLBrace,
	'}': TokenRBrace,
	'[': TokenLBracket,
	']': TokenRBracket,
}

var keywords = map[string]TokenKind{
	"let":    TokenLet,
	"var":    TokenVar,
	"func":   TokenFunc,
	"if":     TokenIf,
	"else":   TokenElse,
	"while":  TokenWhile,
	"return": TokenReturn,
	"as":     TokenAs,
	"mut":    TokenMut,
	"int":    TokenInt,
	"float":  TokenFloat,
	"bool":   TokenBool,
	"char":   TokenChar,
	"string": TokenString,
	"true":   TokenBoolLiteral,
	"false":  TokenBoolLiteral,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}

// LookupSign returns the kind of the one-byte sign ch.
func LookupSign(ch byte) (TokenKind, bool) {
	kind, ok := signs[ch]
	return kind, ok
}

// Token is a lexeme. Text is a slice of the source buffer; Value holds
// the decoded payload of literals (bool, int64, float64, rune or string).
type Token struct {
	Kind    TokenKind
	Range   source.Range
	Text    string
	Value   any
	Invalid bool
}

func (t Token) Is(kinds ...TokenKind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

func (t Token) String() string {
	if t.Kind == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}
