package i18n

import "sync"

// Translator retrieves localized messages for error codes.
// data provides optional metadata to embed in the message (for example,
// "key" or "offset").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "unsupported_bytes":
			return "バイト列はシリアライズできません"
		case "invalid_byte_encoding":
			return "バイト列を文字列としてデコードできません"
		case "unsupported_datetime":
			return "日時はシリアライズできません"
		case "invalid_pattern":
			return "日時パターンが不正です"
		case "non_text_key":
			return "キーが文字列ではありません"
		case "invalid_number":
			return "数値が不正です"
		case "cyclic_reference":
			return "循環参照を検出しました"
		case "marshaler_failed":
			return "MarshalValue がエラーを返しました"
		case "malformed_input":
			return "JSONの構文エラー"
		case "duplicate_key":
			return "キーが重複しています"
		case "depth_exceeded":
			return "ネストが深すぎます"
		}
	default: // "en"
		switch code {
		case "unsupported_bytes":
			return "bytes are not serializable"
		case "invalid_byte_encoding":
			return "bytes cannot be decoded as text"
		case "unsupported_datetime":
			return "datetime is not serializable"
		case "invalid_pattern":
			return "invalid datetime pattern"
		case "non_text_key":
			return "mapping key is not text"
		case "invalid_number":
			return "number is not representable in JSON"
		case "cyclic_reference":
			return "cyclic reference detected"
		case "marshaler_failed":
			return "MarshalValue returned an error"
		case "malformed_input":
			return "malformed JSON"
		case "duplicate_key":
			return "duplicate key"
		case "depth_exceeded":
			return "maximum nesting depth exceeded"
		}
	}
	return code
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
