package i18n

import (
	"fmt"

	brannigan "github.com/ido50/Brannigan"
)

// Translator retrieves localized messages for reject rule names. args are
// the rule's configured arguments (for example the bounds of length_between)
// and may be embedded in the message.
type Translator interface {
	Message(rule string, args []any) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(rule string, args []any) string {
	switch t.lang {
	case "ja":
		switch rule {
		case "required":
			return "必須フィールドが不足しています"
		case "forbidden":
			return "このフィールドは指定できません"
		case "length_between":
			if len(args) == 2 {
				return fmt.Sprintf("長さは%vから%vの間でなければなりません", args[0], args[1])
			}
			return "長さが不正です"
		case "min_length":
			return "短すぎます"
		case "max_length":
			return "長すぎます"
		case "exact_length":
			return "長さが一致しません"
		case "integer":
			return "整数でなければなりません"
		case "value_between", "min_value", "max_value":
			return "値が範囲外です"
		case "array":
			return "配列でなければなりません"
		case "hash":
			return "ハッシュでなければなりません"
		case "one_of":
			return "許可された値ではありません"
		case "validate":
			return "値が不正です"
		case "_unknown":
			return "未知のフィールドです"
		}
	default: // "en"
		switch rule {
		case "required":
			return "is required"
		case "forbidden":
			return "must not be provided"
		case "length_between":
			if len(args) == 2 {
				return fmt.Sprintf("length must be between %v and %v", args[0], args[1])
			}
			return "has an invalid length"
		case "min_length":
			return "is too short"
		case "max_length":
			return "is too long"
		case "exact_length":
			return "has the wrong length"
		case "integer":
			return "must be an integer"
		case "value_between":
			if len(args) == 2 {
				return fmt.Sprintf("must be between %v and %v", args[0], args[1])
			}
			return "is out of range"
		case "min_value":
			return "is too small"
		case "max_value":
			return "is too large"
		case "array":
			return "must be an array"
		case "hash":
			return "must be a hash"
		case "one_of":
			return "is not an allowed value"
		case "validate":
			return "is invalid"
		case "_unknown":
			return "is not a recognized field"
		}
	}
	return rule
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given rule using the current Translator.
func T(rule string, args []any) string { return currentTranslator.Message(rule, args) }

// RejectMessage renders a human message for one reject.
func RejectMessage(r brannigan.Reject) string {
	if r.Unknown {
		return T("_unknown", nil)
	}
	return T(r.Rule, r.Args)
}
