package token

type TokenType string

type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	IDENT_LOWER TokenType = "IDENT_LOWER" // x, suc, cons'
	IDENT_UPPER TokenType = "IDENT_UPPER" // Nat, Vec
	INT         TokenType = "INT"
	UNDERSCORE  TokenType = "_"

	COLON     TokenType = ":"
	COMMA     TokenType = ","
	PIPE      TokenType = "|"
	ARROW     TokenType = "->"
	FAT_ARROW TokenType = "=>"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"

	// Keywords
	DATA  TokenType = "DATA"
	FUNC  TokenType = "FUNC"
	WITH  TokenType = "WITH"
	ELIM  TokenType = "ELIM"
	TYPE  TokenType = "TYPE"
	SIGMA TokenType = "SIGMA"
)

var keywords = map[string]TokenType{
	"data":  DATA,
	"func":  FUNC,
	"with":  WITH,
	"elim":  ELIM,
	"Type":  TYPE,
	"Sigma": SIGMA,
}

// LookupIdent classifies an identifier lexeme as a keyword or a lower/upper identifier.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if ident != "" && ident[0] >= 'A' && ident[0] <= 'Z' {
		return IDENT_UPPER
	}
	return IDENT_LOWER
}
