package i18n

import (
	"testing"

	brannigan "github.com/ido50/Brannigan"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("required", nil); msg == "required" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("required", nil); msg == "is required" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_ArgsEmbedded(t *testing.T) {
	msg := T("length_between", []any{3, 40})
	if msg != "length must be between 3 and 40" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestTranslator_UnknownRuleFallsBackToName(t *testing.T) {
	if msg := T("my_custom_rule", nil); msg != "my_custom_rule" {
		t.Fatalf("expected the rule name back, got %q", msg)
	}
}

func TestRejectMessage(t *testing.T) {
	if msg := RejectMessage(brannigan.Reject{Unknown: true}); msg != "is not a recognized field" {
		t.Fatalf("unexpected message for unknown field: %q", msg)
	}
	if msg := RejectMessage(brannigan.Reject{Rule: "integer"}); msg != "must be an integer" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestSetTranslator_NilRestoresDefault(t *testing.T) {
	SetTranslator(nil)
	if msg := T("required", nil); msg != "is required" {
		t.Fatalf("unexpected message: %q", msg)
	}
}
