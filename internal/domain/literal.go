package domain

// ValueType is the semantic classification of a string literal payload.
type ValueType string

const (
	ValueNone          ValueType = ""
	ValueEmail         ValueType = "email"
	ValueURL           ValueType = "url"
	ValueIPAddress     ValueType = "ip-address"
	ValueFilePath      ValueType = "file-path"
	ValueDate          ValueType = "date"
	ValueAPIKey        ValueType = "api-key"
	ValueUUID          ValueType = "uuid"
	ValueSemVer        ValueType = "semver"
	ValueColor         ValueType = "color"
	ValueMACAddress    ValueType = "mac-address"
	ValueBase64        ValueType = "base64"
	ValueJWT           ValueType = "jwt"
	ValueConfigKeyword ValueType = "config-keyword"
	ValueGeneric       ValueType = "generic"
)

// Recognized reports whether t identifies what the value is. Generic only
// says the value is not a plain string.
func (t ValueType) Recognized() bool {
	return t != ValueNone && t != ValueGeneric
}

// LiteralContext tags the syntactic role of a literal. A literal may carry
// several tags at once; callers test individual tags.
type LiteralContext string

const (
	ContextExportedConstant   LiteralContext = "exported-constant"
	ContextType               LiteralContext = "type-context"
	ContextImport             LiteralContext = "import-statement"
	ContextTestDescription    LiteralContext = "test-description"
	ContextLoggingCall        LiteralContext = "logging-call"
	ContextRuntimeTypeCheck   LiteralContext = "runtime-type-check"
	ContextSymbolConstruction LiteralContext = "symbol-construction"
	ContextConfigObjectMember LiteralContext = "config-object-member"
	ContextUnclassified       LiteralContext = "unclassified"
)

// SecretFinding is one credential reported by a SecretScanner.
type SecretFinding struct {
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	SecretType  string `json:"secret_type"`
	MatchedText string `json:"matched_text"`
}
