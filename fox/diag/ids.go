package diag

import (
	"fmt"
	"strings"
)

type ID int

const (
	// Lexer
	UnrecognizedChar ID = iota
	UnterminatedString
	UnterminatedChar
	UnterminatedBlockComment
	EmptyCharLiteral
	CharLiteralTooLong
	InvalidEscape
	IntTooLarge

	// Parser
	ExpectedDecl
	ExpectedDeclInUnit
	ExpectedIden
	ExpectedExpr
	ExpectedType
	ExpectedColon
	ExpectedSemi
	ExpectedOpeningRoundBracket
	ExpectedClosingRoundBracket
	ExpectedClosingSquareBracket
	ExpectedOpeningCurlyBracket
	ExpectedClosingCurlyBracket
	ExpectedParamDecl
	ExpectedStmt
	BracketsTooDeep

	// Engine
	TooManyErrors
)

type idInfo struct {
	name     string
	severity Severity
	message  string
}

var ids = map[ID]idInfo{
	UnrecognizedChar:         {"lexer_unrecognized_char", SeverityError, "unrecognized character %q"},
	UnterminatedString:       {"lexer_unterminated_string", SeverityError, "unterminated string literal"},
	UnterminatedChar:         {"lexer_unterminated_char", SeverityError, "unterminated char literal"},
	UnterminatedBlockComment: {"lexer_unterminated_block_comment", SeverityFatal, "unterminated block comment"},
	EmptyCharLiteral:         {"lexer_empty_char_literal", SeverityError, "empty char literal"},
	CharLiteralTooLong:       {"lexer_char_literal_too_long", SeverityError, "char literal must contain exactly one character"},
	InvalidEscape:            {"lexer_invalid_escape", SeverityError, "unknown escape sequence '\\%c'"},
	IntTooLarge:              {"lexer_int_too_large", SeverityError, "integer literal %s is too large"},

	ExpectedDecl:                 {"parser_expected_decl", SeverityError, "expected a declaration"},
	ExpectedDeclInUnit:           {"parser_expected_decl_in_unit", SeverityError, "expected one or more declarations in unit"},
	ExpectedIden:                 {"parser_expected_iden", SeverityError, "expected an identifier"},
	ExpectedExpr:                 {"parser_expected_expr", SeverityError, "expected an expression"},
	ExpectedType:                 {"parser_expected_type", SeverityError, "expected a type"},
	ExpectedColon:                {"parser_expected_colon", SeverityError, "expected ':'"},
	ExpectedSemi:                 {"parser_expected_semi", SeverityError, "expected ';'"},
	ExpectedOpeningRoundBracket:  {"parser_expected_opening_roundbracket", SeverityError, "expected '('"},
	ExpectedClosingRoundBracket:  {"parser_expected_closing_roundbracket", SeverityError, "expected ')'"},
	ExpectedClosingSquareBracket: {"parser_expected_closing_squarebracket", SeverityError, "expected ']'"},
	ExpectedOpeningCurlyBracket:  {"parser_expected_opening_curlybracket", SeverityError, "expected '{'"},
	ExpectedClosingCurlyBracket:  {"parser_expected_closing_curlybracket", SeverityError, "expected '}'"},
	ExpectedParamDecl:            {"parser_expected_paramdecl", SeverityError, "expected a parameter declaration"},
	ExpectedStmt:                 {"parser_expected_stmt", SeverityError, "expected a statement"},
	BracketsTooDeep:              {"parser_brackets_too_deep", SeverityFatal, "brackets nested deeper than %d levels"},

	TooManyErrors: {"too_many_errors", SeverityFatal, "too many errors emitted (limit is %d), stopping now"},
}

func (id ID) String() string {
	if info, ok := ids[id]; ok {
		return info.name
	}
	return "Unknown"
}

func (id ID) Severity() Severity {
	if info, ok := ids[id]; ok {
		return info.severity
	}
	return SeverityError
}

// Message renders the message template of d.ID with d.Args.
func Message(d Diagnostic) string {
	info, ok := ids[d.ID]
	if !ok {
		return d.ID.String()
	}
	want := strings.Count(info.message, "%") - 2*strings.Count(info.message, "%%")
	if want == 0 || len(d.Args) < want {
		if want > 0 {
			return strings.TrimSpace(strings.SplitN(info.message, "%", 2)[0])
		}
		return info.message
	}
	return fmt.Sprintf(info.message, d.Args[:want]...)
}
