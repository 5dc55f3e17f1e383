package checkout

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailError(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{"empty", "", MsgEmailRequired},
		{"simple", "a@b.com", ""},
		{"upper case", "John.Doe@Example.COM", ""},
		{"plus and percent", "a+b%c@mail.example.org", ""},
		{"missing at", "ab.com", MsgEmailInvalid},
		{"missing domain", "a@", MsgEmailInvalid},
		{"missing tld", "a@b", MsgEmailInvalid},
		{"one letter tld", "a@b.c", MsgEmailInvalid},
		{"numeric tld", "a@b.12", MsgEmailInvalid},
		{"space inside", "a b@c.com", MsgEmailInvalid},
		{"two ats", "a@b@c.com", MsgEmailInvalid},
		{"whitespace only", "   ", MsgEmailInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EmailError(tt.value))
		})
	}
}

func TestQuantityError(t *testing.T) {
	t.Run("whole range is accepted", func(t *testing.T) {
		for n := 1; n <= 100; n++ {
			assert.Empty(t, QuantityError(strconv.Itoa(n)), "quantity %d", n)
		}
	})

	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{"empty", "", MsgQuantityRequired},
		{"zero", "0", MsgQuantityMin},
		{"negative", "-3", MsgQuantityMin},
		{"above max", "101", MsgQuantityMax},
		{"letters", "abc", MsgQuantityNaN},
		{"blank", " ", MsgQuantityNaN},
		{"surrounding spaces", " 7 ", ""},
		{"decimal", "1.5", MsgQuantityNaN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuantityError(tt.value))
		})
	}
}

func TestDiscountError(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{"empty", "", ""},
		{"letters digits dash", "ABC-123", ""},
		{"lower case", "summer-sale", ""},
		{"bang", "abc!", MsgDiscountInvalid},
		{"space", "ABC 123", MsgDiscountInvalid},
		{"underscore", "ABC_123", MsgDiscountInvalid},
		{"non ascii", "İNDİRİM", MsgDiscountInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DiscountError(tt.value))
		})
	}
}

func TestParseField(t *testing.T) {
	for _, f := range Fields {
		got, ok := ParseField(string(f))
		assert.True(t, ok)
		assert.Equal(t, f, got)
	}

	_, ok := ParseField("dayCount")
	assert.False(t, ok)
	_, ok = ParseField("")
	assert.False(t, ok)
}

func TestCheck(t *testing.T) {
	assert.Equal(t, MsgEmailRequired, Check(FieldEmail, ""))
	assert.Equal(t, MsgQuantityRequired, Check(FieldQuantity, ""))
	assert.Equal(t, "", Check(FieldDiscount, ""))
	assert.Equal(t, "", Check(Field("unknown"), "x"))
}

func TestReturnURLs(t *testing.T) {
	tests := []struct {
		name        string
		site        string
		lang        string
		wantSuccess string
		wantCancel  string
	}{
		{"turkish", "https://kozymacro.com", "tr", "https://kozymacro.com/tr?payment=success", "https://kozymacro.com/tr?payment=fail"},
		{"english", "https://kozymacro.com", "en", "https://kozymacro.com?payment=success", "https://kozymacro.com?payment=fail"},
		{"trailing slash", "https://kozymacro.com/", "en", "https://kozymacro.com?payment=success", "https://kozymacro.com?payment=fail"},
		{"other language", "https://kozymacro.com", "de", "https://kozymacro.com?payment=success", "https://kozymacro.com?payment=fail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			success, cancel := ReturnURLs(tt.site, tt.lang)
			assert.Equal(t, tt.wantSuccess, success)
			assert.Equal(t, tt.wantCancel, cancel)
		})
	}
}

func TestResolveLanguage(t *testing.T) {
	assert.Equal(t, "tr", ResolveLanguage(""))
	assert.Equal(t, "tr", ResolveLanguage("  "))
	assert.Equal(t, "en", ResolveLanguage("en"))
	assert.Equal(t, "tr", ResolveLanguage("tr"))
}
